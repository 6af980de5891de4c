package models

import (
	"time"

	"github.com/google/uuid"
)

// Engine inputs. One request type per operation, validated at the transport boundary.

type PostRideRequest struct {
	Origin        string
	Destination   string
	PricePerSeat  float64
	Seats         int
	DepartureTime time.Time
}

type PassengerGroup struct {
	BookedSeats    int
	PickupAddress  string
	DropoffAddress string
	ContactPhone   string
}

type BookSeatsRequest struct {
	RideID     uuid.UUID
	Passengers []PassengerGroup
}

type CancelBookingRequest struct {
	RideID uuid.UUID
	// BookingID is optional. When nil the rider's first accepted booking is cancelled.
	BookingID *uuid.UUID
	Reason    string
}

type CancelRideRequest struct {
	RideID uuid.UUID
	Reason string
}

type CancelPassengerRequest struct {
	RideID    uuid.UUID
	BookingID uuid.UUID
	Reason    string
}

type AdjustFareRequest struct {
	RideID       uuid.UUID
	PricePerSeat float64
}

type RateDriverRequest struct {
	RideID uuid.UUID
	Rating int
}

type PostRideResult struct {
	Ride          *Ride   `json:"ride"`
	SuggestedFare float64 `json:"suggested_fare"`
}

type BookingResult struct {
	Ride     *Ride     `json:"ride"`
	Bookings []Booking `json:"bookings"`
}

type CancelBookingResult struct {
	Ride    *Ride   `json:"ride"`
	Booking Booking `json:"booking"`
}
