package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

var (
	ErrEmptyConn   = errors.New("connection is empty")
	ErrHubIsClosed = errors.New("hub is closed")
)

// ConnectionHub groups websocket connections by topic. A topic has any number of subscribers.
type ConnectionHub struct {
	topics map[string]map[uuid.UUID]*Conn
	closed bool
	l      logger.Logger
	mu     sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		topics: make(map[string]map[uuid.UUID]*Conn),
		l:      l,
	}
}

// Subscribe registers conn under topic.
func (h *ConnectionHub) Subscribe(topic string, conn *Conn) error {
	if conn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubIsClosed
	}
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[uuid.UUID]*Conn)
		h.topics[topic] = subs
	}
	subs[conn.ID] = conn
	return nil
}

// Unsubscribe removes conn from topic and closes it.
func (h *ConnectionHub) Unsubscribe(topic string, conn *Conn) {
	h.remove(topic, conn)
	_ = conn.Close()
}

func (h *ConnectionHub) remove(topic string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, conn.ID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Broadcast queues msg for every subscriber of topic and returns without waiting for the writes.
// Subscribers that are closed or too far behind are dropped. It returns the number of queued deliveries.
func (h *ConnectionHub) Broadcast(ctx context.Context, topic string, msg any) int {
	h.mu.Lock()
	subs := make([]*Conn, 0, len(h.topics[topic]))
	for _, c := range h.topics[topic] {
		subs = append(subs, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range subs {
		if err := c.Enqueue(msg); err != nil {
			h.l.Warn(wrap.WithAction(ctx, "ws_broadcast"), "dropping websocket subscriber",
				"topic", topic,
				"conn_id", c.ID,
				"error", err.Error(),
			)
			h.remove(topic, c)
			// Close may wait on a write in progress.
			go func() { _ = c.Close() }()
			continue
		}
		sent++
	}
	return sent
}

// Subscribers returns the number of connections on topic.
func (h *ConnectionHub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// Close closes every connection and refuses new subscriptions.
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Conn
	for _, subs := range h.topics {
		for _, c := range subs {
			all = append(all, c)
		}
	}
	h.topics = make(map[string]map[uuid.UUID]*Conn)
	h.mu.Unlock()

	for _, c := range all {
		_ = c.Close()
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed gracefully")
}
