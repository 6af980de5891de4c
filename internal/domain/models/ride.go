package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Ride is the aggregate root. Bookings are owned by the ride and never removed.
type Ride struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	DriverName  string    `json:"driver_name"`
	DriverPhone string    `json:"driver_phone"`

	Origin           string      `json:"origin"`
	Destination      string      `json:"destination"`
	OriginCoord      *Coordinate `json:"origin_coord,omitempty"`
	DestinationCoord *Coordinate `json:"destination_coord,omitempty"`
	DistanceLabel    *string     `json:"distance,omitempty"`
	DurationLabel    *string     `json:"duration,omitempty"`

	PricePerSeat   float64   `json:"price_per_seat"`
	TotalSeats     int       `json:"total_seats"`
	SeatsAvailable int       `json:"seats_available"`
	DepartureTime  time.Time `json:"departure_time"`

	Status             types.RideStatus `json:"status"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	Bookings           []Booking        `json:"bookings"`

	// Version is bumped by every successful conditional write.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking is a passenger group booked on a ride. It changes status at most once.
type Booking struct {
	ID                 uuid.UUID           `json:"id"`
	RiderID            uuid.UUID           `json:"rider_id"`
	BookedSeats        int                 `json:"booked_seats"`
	PickupAddress      string              `json:"pickup_address"`
	DropoffAddress     string              `json:"dropoff_address"`
	ContactPhone       string              `json:"contact_phone"`
	PricePerSeat       float64             `json:"price_per_seat"`
	Status             types.BookingStatus `json:"status"`
	CancellationReason *string             `json:"cancellation_reason,omitempty"`
	Rated              bool                `json:"rated"`
	CreatedAt          time.Time           `json:"created_at"`
}

// AcceptedSeats sums the seats held by accepted bookings.
func (r *Ride) AcceptedSeats() int {
	n := 0
	for _, b := range r.Bookings {
		if b.Status == types.BookingAccepted {
			n += b.BookedSeats
		}
	}
	return n
}

// Consistent reports whether the seat counter matches the accepted bookings.
func (r *Ride) Consistent() bool {
	return r.SeatsAvailable >= 0 &&
		r.SeatsAvailable <= r.TotalSeats &&
		r.SeatsAvailable+r.AcceptedSeats() == r.TotalSeats
}

// FindBooking returns the index of the booking with id, or -1.
func (r *Ride) FindBooking(id uuid.UUID) int {
	for i := range r.Bookings {
		if r.Bookings[i].ID == id {
			return i
		}
	}
	return -1
}

// HasBookingBy reports whether the rider holds any booking on the ride.
func (r *Ride) HasBookingBy(riderID uuid.UUID) bool {
	for _, b := range r.Bookings {
		if b.RiderID == riderID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the ride.
func (r *Ride) Clone() *Ride {
	if r == nil {
		return nil
	}
	c := *r
	c.OriginCoord = clonePtr(r.OriginCoord)
	c.DestinationCoord = clonePtr(r.DestinationCoord)
	c.DistanceLabel = clonePtr(r.DistanceLabel)
	c.DurationLabel = clonePtr(r.DurationLabel)
	c.CancellationReason = clonePtr(r.CancellationReason)
	c.Bookings = make([]Booking, len(r.Bookings))
	for i, b := range r.Bookings {
		b.CancellationReason = clonePtr(b.CancellationReason)
		c.Bookings[i] = b
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Snapshot is the seat inventory view pushed to watchers of a ride.
func (r *Ride) Snapshot() InventorySnapshot {
	return InventorySnapshot{
		RideID:         r.ID,
		SeatsAvailable: r.SeatsAvailable,
		TotalSeats:     r.TotalSeats,
		Status:         r.Status,
		UpdatedAt:      r.UpdatedAt,
	}
}

type InventorySnapshot struct {
	RideID         uuid.UUID        `json:"ride_id"`
	SeatsAvailable int              `json:"seats_available"`
	TotalSeats     int              `json:"total_seats"`
	Status         types.RideStatus `json:"status"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ListedRide is an active ride enriched with its driver's reputation.
type ListedRide struct {
	*Ride
	DriverRating     float64 `json:"driver_rating"`
	DriverNumRatings int64   `json:"driver_num_ratings"`
}

type RideList struct {
	Rides    []ListedRide `json:"rides"`
	Metadata Metadata     `json:"metadata"`
}

// RideFilter narrows the active ride listing. Text filters are case-insensitive substrings.
type RideFilter struct {
	Origin      string
	Destination string
	DepartFrom  *time.Time
	DepartTo    *time.Time
	Filters
}
