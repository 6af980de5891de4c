package ride

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

// emit records, publishes and broadcasts a transition that has already been persisted.
// Failures are logged and never undo the write.
func (s *RideService) emit(ctx context.Context, eventType types.RideEvent, ride *models.Ride, actorID uuid.UUID, msg models.RideEventMessage) {
	msg.EventID = uuid.New()
	msg.Type = eventType
	msg.RideID = ride.ID
	msg.DriverID = ride.DriverID
	msg.ActorID = actorID
	msg.Status = ride.Status
	msg.SeatsAvailable = ride.SeatsAvailable
	msg.CorrelationID = wrap.GetRequestID(ctx)
	msg.Timestamp = s.now().UTC()

	if s.events != nil {
		eventData, _ := json.Marshal(msg) // non fatal event so just ignore error
		if err := s.events.CreateEvent(ctx, ride.ID, eventType, eventData); err != nil {
			s.logger.Warn(ctx, "failed to record ride event", "event_type", eventType, "error", err.Error())
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRideEvent(ctx, msg); err != nil {
			s.logger.Warn(ctx, "failed to publish ride event", "event_type", eventType, "error", err.Error())
		}
	}

	if s.inventory != nil {
		s.inventory.BroadcastInventory(ctx, ride.Snapshot())
	}
}

func bookingIDs(bookings []models.Booking) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}
