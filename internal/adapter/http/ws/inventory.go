package wshandler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/ride-share-system/internal/adapter/http/handler"
	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

const authTimeout = 5 * time.Second

type (
	RideReader interface {
		GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error)
	}

	Resolver interface {
		Resolve(ctx context.Context, token string) (*models.Actor, error)
	}
)

// InventoryHandler serves the read-only seat inventory feed of a single ride.
type InventoryHandler struct {
	hub         *ws.ConnectionHub
	rides       RideReader
	identity    Resolver
	upgrader    websocket.Upgrader
	serviceName string
	l           logger.Logger
}

func NewInventoryHandler(hub *ws.ConnectionHub, rides RideReader, identity Resolver, serviceName string, l logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		hub:      hub,
		rides:    rides,
		identity: identity,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		serviceName: serviceName,
		l:           l,
	}
}

// Watch godoc
// @Summary      Watch seat inventory
// @Description  Websocket feed. The first message is the current snapshot, then one per seat mutation.
// @Description  Clients without an Authorization header must send {"type":"auth","token":"Bearer ..."} within 5 seconds.
// @Tags         Rides
// @Param        ride_id  path  string  true  "Ride ID"
// @Router       /ws/rides/{ride_id}/inventory [get]
func (h *InventoryHandler) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionWebsocketConnected)

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		http.Error(w, "invalid ride id", http.StatusBadRequest)
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	// Lookup failures are answered before the upgrade with a plain status.
	if _, err := h.rides.GetRide(ctx, rideID); err != nil {
		status := handler.GetCode(err)
		if status >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load ride for watcher", err)
		}
		http.Error(w, types.AsError(err).Message, status)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	actor := models.ActorFromContext(ctx)
	if actor.IsAnonymous() {
		actor, err = h.authenticate(ctx, raw)
		if err != nil {
			h.l.Warn(wrap.ErrorCtx(ctx, err), "websocket authentication failed", "error", err.Error())
			_ = raw.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
				time.Now().Add(time.Second))
			_ = raw.Close()
			return
		}
	}
	ctx = wrap.WithUserID(ctx, actor.ID.String())

	// The request context ends with the handler, the connection outlives neither.
	conn := ws.NewConn(context.WithoutCancel(ctx), raw)
	if err := h.hub.Subscribe(rideID.String(), conn); err != nil {
		h.l.Warn(ctx, "failed to subscribe websocket", "error", err.Error())
		_ = conn.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()
	h.l.Info(ctx, "inventory watcher connected", "conn_id", conn.ID)

	defer func() {
		h.hub.Unsubscribe(rideID.String(), conn)
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()
		h.l.Info(wrap.WithAction(ctx, types.ActionWebsocketClosed), "inventory watcher disconnected", "conn_id", conn.ID)
	}()

	// Snapshot is read after subscribing so no mutation falls between the two.
	ride, err := h.rides.GetRide(ctx, rideID)
	if err != nil {
		_ = errorResponse(conn, types.AsError(err))
		return
	}
	if err := conn.Enqueue(newInventoryMessage(ride.Snapshot())); err != nil {
		h.l.Warn(ctx, "failed to send initial snapshot", "error", err.Error())
		return
	}

	if err := conn.Listen(); err != nil {
		h.l.Debug(ctx, "websocket listen ended", "error", err.Error())
	}
}
