package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

const (
	maxLabelChars  = 200
	maxReasonChars = 500
)

type PostRideReq struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	PricePerSeat  *float64   `json:"price_per_seat"`
	Seats         *int       `json:"seats"`
	DepartureTime *time.Time `json:"departure_time"`
}

func (r *PostRideReq) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Origin), "origin", "must be provided")
	v.Check(validator.MaxChars(r.Origin, maxLabelChars), "origin", "must not be more than 200 characters")
	v.Check(validator.NotBlank(r.Destination), "destination", "must be provided")
	v.Check(validator.MaxChars(r.Destination, maxLabelChars), "destination", "must not be more than 200 characters")

	if r.PricePerSeat == nil {
		v.AddError("price_per_seat", "must be provided")
	} else {
		v.Check(*r.PricePerSeat > 0, "price_per_seat", "must be greater than zero")
	}

	if r.Seats == nil {
		v.AddError("seats", "must be provided")
	} else {
		v.Check(*r.Seats > 0, "seats", "must be greater than zero")
	}

	v.Check(r.DepartureTime != nil, "departure_time", "must be provided")
}

func (r *PostRideReq) ToModel() models.PostRideRequest {
	return models.PostRideRequest{
		Origin:        r.Origin,
		Destination:   r.Destination,
		PricePerSeat:  *r.PricePerSeat,
		Seats:         *r.Seats,
		DepartureTime: *r.DepartureTime,
	}
}

type CancelRideReq struct {
	Reason string `json:"reason"`
}

func (r *CancelRideReq) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Reason), "reason", "must be provided")
	v.Check(validator.MaxChars(r.Reason, maxReasonChars), "reason", "must not be more than 500 characters")
}

type AdjustFareReq struct {
	PricePerSeat *float64 `json:"price_per_seat"`
}

func (r *AdjustFareReq) Validate(v *validator.Validator) {
	if r.PricePerSeat == nil {
		v.AddError("price_per_seat", "must be provided")
		return
	}
	v.Check(*r.PricePerSeat > 0, "price_per_seat", "must be greater than zero")
}

type FareSuggestReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func (r *FareSuggestReq) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Origin), "origin", "must be provided")
	v.Check(validator.NotBlank(r.Destination), "destination", "must be provided")
}

type ReverseGeocodeReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (r *ReverseGeocodeReq) Validate(v *validator.Validator) {
	if r.Lat != nil && r.Lng != nil {
		v.Check(*r.Lat >= -90 && *r.Lat <= 90, "lat", "must be between -90 and 90")
		v.Check(*r.Lng >= -180 && *r.Lng <= 180, "lng", "must be between -180 and 180")
	} else {
		v.Check(r.Lat != nil, "lat", "must be provided")
		v.Check(r.Lng != nil, "lng", "must be provided")
	}
}

func (r *ReverseGeocodeReq) ToModel() models.Coordinate {
	return models.Coordinate{Lat: *r.Lat, Lng: *r.Lng}
}

// VisibleRide returns the ride as the actor may see it. The posting driver and admins
// see every booking, anyone else only their own.
func VisibleRide(ride *models.Ride, actor *models.Actor) *models.Ride {
	if ride == nil || actor.ID == ride.DriverID || actor.Role == types.RoleAdmin {
		return ride
	}
	c := ride.Clone()
	c.Bookings = ownBookings(c.Bookings, actor.ID)
	return c
}

func VisibleRides(rides []*models.Ride, actor *models.Actor) []*models.Ride {
	out := make([]*models.Ride, 0, len(rides))
	for _, r := range rides {
		out = append(out, VisibleRide(r, actor))
	}
	return out
}

func ownBookings(bookings []models.Booking, riderID uuid.UUID) []models.Booking {
	own := make([]models.Booking, 0)
	for _, b := range bookings {
		if b.RiderID == riderID {
			own = append(own, b)
		}
	}
	return own
}
