package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

type Event struct {
	RideID    uuid.UUID
	Type      types.RideEvent
	Data      json.RawMessage
	CreatedAt time.Time
}

// EventRepo is an append-only ride event log.
type EventRepo struct {
	mu     sync.Mutex
	events []Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{}
}

func (r *EventRepo) CreateEvent(_ context.Context, rideID uuid.UUID, eventType types.RideEvent, data json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{RideID: rideID, Type: eventType, Data: data, CreatedAt: time.Now()})
	return nil
}

// Events returns the events of a ride in insertion order.
func (r *EventRepo) Events(rideID uuid.UUID) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if e.RideID == rideID {
			out = append(out, e)
		}
	}
	return out
}
