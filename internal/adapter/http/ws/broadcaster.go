package wshandler

import (
	"context"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/ride-share-system/pkg/wsHub"
)

// InventoryBroadcaster pushes seat snapshots to the watchers of a ride.
type InventoryBroadcaster struct {
	hub *ws.ConnectionHub
	l   logger.Logger
}

func NewInventoryBroadcaster(hub *ws.ConnectionHub, l logger.Logger) *InventoryBroadcaster {
	return &InventoryBroadcaster{hub: hub, l: l}
}

func (b *InventoryBroadcaster) BroadcastInventory(ctx context.Context, snapshot models.InventorySnapshot) {
	topic := snapshot.RideID.String()
	if b.hub.Subscribers(topic) == 0 {
		return
	}
	sent := b.hub.Broadcast(ctx, topic, newInventoryMessage(snapshot))
	b.l.Debug(wrap.WithRideID(ctx, topic), "inventory broadcast", "queued", sent, "seats_available", snapshot.SeatsAvailable)
}
