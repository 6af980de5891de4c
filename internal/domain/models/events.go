package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

// RideEventMessage is recorded in the audit log and published to the broker after a transition.
type RideEventMessage struct {
	EventID        uuid.UUID        `json:"event_id"`
	Type           types.RideEvent  `json:"event_type"`
	RideID         uuid.UUID        `json:"ride_id"`
	DriverID       uuid.UUID        `json:"driver_id"`
	ActorID        uuid.UUID        `json:"actor_id"`
	Status         types.RideStatus `json:"ride_status"`
	SeatsAvailable int              `json:"seats_available"`
	BookingIDs     []uuid.UUID      `json:"booking_ids,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Data           map[string]any   `json:"data,omitempty"`
	CorrelationID  string           `json:"correlation_id,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Policy is the set of policy parameters after defaults are applied.
type Policy struct {
	CommissionRate           float64       `json:"commission_rate"`
	BookingLeadTime          time.Duration `json:"-"`
	RiderCancellationCutoff  time.Duration `json:"-"`
	DriverCancellationCutoff time.Duration `json:"-"`
	BookingAvailable         bool          `json:"is_booking_available"`
}

// PublicPolicy is the client facing view of Policy.
type PublicPolicy struct {
	CommissionRate                float64 `json:"commission_rate"`
	BookingLeadTimeMinutes        float64 `json:"booking_lead_time_minutes"`
	RiderCancellationCutoffHours  float64 `json:"rider_cancellation_cutoff_hours"`
	DriverCancellationCutoffHours float64 `json:"driver_cancellation_cutoff_hours"`
	IsBookingAvailable            bool    `json:"is_booking_available"`
}

func (p Policy) Public() PublicPolicy {
	return PublicPolicy{
		CommissionRate:                p.CommissionRate,
		BookingLeadTimeMinutes:        p.BookingLeadTime.Minutes(),
		RiderCancellationCutoffHours:  p.RiderCancellationCutoff.Hours(),
		DriverCancellationCutoffHours: p.DriverCancellationCutoff.Hours(),
		IsBookingAvailable:            p.BookingAvailable,
	}
}
