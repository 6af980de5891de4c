package dto

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

const maxPassengerGroups = 10

type PassengerReq struct {
	BookedSeats    int    `json:"booked_seats"`
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
	ContactPhone   string `json:"contact_phone"`
}

type BookSeatsReq struct {
	Passengers []PassengerReq `json:"passengers"`
}

func (r *BookSeatsReq) Validate(v *validator.Validator) {
	v.Check(len(r.Passengers) > 0, "passengers", "must contain at least one passenger group")
	v.Check(len(r.Passengers) <= maxPassengerGroups, "passengers", "must not contain more than 10 passenger groups")

	for i, p := range r.Passengers {
		key := func(field string) string { return fmt.Sprintf("passengers[%d].%s", i, field) }

		v.Check(p.BookedSeats > 0, key("booked_seats"), "must be greater than zero")
		v.Check(validator.NotBlank(p.PickupAddress), key("pickup_address"), "must be provided")
		v.Check(validator.MaxChars(p.PickupAddress, maxLabelChars), key("pickup_address"), "must not be more than 200 characters")
		v.Check(validator.NotBlank(p.DropoffAddress), key("dropoff_address"), "must be provided")
		v.Check(validator.MaxChars(p.DropoffAddress, maxLabelChars), key("dropoff_address"), "must not be more than 200 characters")
		v.Check(validator.Matches(p.ContactPhone, validator.PhoneRX), key("contact_phone"), "must be a valid phone number")
	}
}

func (r *BookSeatsReq) ToModel(rideID uuid.UUID) models.BookSeatsRequest {
	groups := make([]models.PassengerGroup, 0, len(r.Passengers))
	for _, p := range r.Passengers {
		groups = append(groups, models.PassengerGroup{
			BookedSeats:    p.BookedSeats,
			PickupAddress:  p.PickupAddress,
			DropoffAddress: p.DropoffAddress,
			ContactPhone:   p.ContactPhone,
		})
	}
	return models.BookSeatsRequest{RideID: rideID, Passengers: groups}
}

type CancelBookingReq struct {
	BookingID *uuid.UUID `json:"booking_id"`
	Reason    string     `json:"reason"`
}

func (r *CancelBookingReq) Validate(v *validator.Validator) {
	v.Check(validator.MaxChars(r.Reason, maxReasonChars), "reason", "must not be more than 500 characters")
}

type RateDriverReq struct {
	Rating *int `json:"rating"`
}

func (r *RateDriverReq) Validate(v *validator.Validator) {
	if r.Rating == nil {
		v.AddError("rating", "must be provided")
		return
	}
	v.Check(validator.Between(*r.Rating, 1, 5), "rating", "must be between 1 and 5")
}
