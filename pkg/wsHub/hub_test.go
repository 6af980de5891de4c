package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-share-system/pkg/logger"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewConnHub(logger.Nop())
	upgrader := websocket.Upgrader{}
	subscribed := make(chan struct{}, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConn(context.Background(), raw)
		if err := hub.Subscribe("ride-1", conn); err != nil {
			_ = conn.Close()
			return
		}
		subscribed <- struct{}{}
		_ = conn.Listen()
		hub.Unsubscribe("ride-1", conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	var clients []*websocket.Conn
	for range 2 {
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer c.Close()
		clients = append(clients, c)
		select {
		case <-subscribed:
		case <-time.After(2 * time.Second):
			t.Fatalf("subscription timed out")
		}
	}

	if got := hub.Broadcast(context.Background(), "ride-1", map[string]int{"seats_available": 2}); got != 2 {
		t.Fatalf("expected 2 deliveries, got %d", got)
	}
	if got := hub.Broadcast(context.Background(), "ride-2", "nobody"); got != 0 {
		t.Fatalf("unrelated topic must not be delivered, got %d", got)
	}

	for _, c := range clients {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg map[string]int
		if err := c.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg["seats_available"] != 2 {
			t.Fatalf("unexpected payload %v", msg)
		}
	}

	hub.Close()
	if err := hub.Subscribe("ride-1", &Conn{}); err != ErrHubIsClosed {
		t.Fatalf("expected ErrHubIsClosed, got %v", err)
	}
}

func TestBroadcastDropsSlowSubscriber(t *testing.T) {
	hub := NewConnHub(logger.Nop())
	defer hub.Close()
	upgrader := websocket.Upgrader{}
	accepted := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- raw
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	var raw *websocket.Conn
	select {
	case raw = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatalf("upgrade timed out")
	}

	// No writer runs, so the queue stays full after one message.
	ctx, cancel := context.WithCancel(context.Background())
	conn := &Conn{ID: uuid.New(), conn: raw, queue: make(chan any, 1), doneCtx: ctx, cancel: cancel}
	if err := hub.Subscribe("ride-1", conn); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if got := hub.Broadcast(context.Background(), "ride-1", "first"); got != 1 {
		t.Fatalf("expected 1 queued delivery, got %d", got)
	}

	start := time.Now()
	if got := hub.Broadcast(context.Background(), "ride-1", "second"); got != 0 {
		t.Fatalf("full queue must not accept, got %d", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("broadcast blocked for %s", elapsed)
	}
	if n := hub.Subscribers("ride-1"); n != 0 {
		t.Fatalf("slow subscriber still registered: %d", n)
	}

	select {
	case <-conn.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("slow subscriber was not closed")
	}
}
