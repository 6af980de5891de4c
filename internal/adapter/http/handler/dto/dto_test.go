package dto

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/validator"
)

func TestBookSeatsReqValidate(t *testing.T) {
	tests := []struct {
		name   string
		req    BookSeatsReq
		fields []string
	}{
		{"empty", BookSeatsReq{}, []string{"passengers"}},
		{"valid", BookSeatsReq{Passengers: []PassengerReq{{1, "Abay 1", "Tole bi 5", "+7 701 000 00 01"}}}, nil},
		{"bad group", BookSeatsReq{Passengers: []PassengerReq{{0, " ", "Tole bi 5", "call me"}}}, []string{
			"passengers[0].booked_seats", "passengers[0].pickup_address", "passengers[0].contact_phone",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			tt.req.Validate(v)
			if len(v.Errors) != len(tt.fields) {
				t.Fatalf("expected %d errors, got %v", len(tt.fields), v.Errors)
			}
			for _, f := range tt.fields {
				if _, ok := v.Errors[f]; !ok {
					t.Fatalf("expected error for %s, got %v", f, v.Errors)
				}
			}
		})
	}
}

func TestVisibleRide(t *testing.T) {
	driver, rider, other := uuid.New(), uuid.New(), uuid.New()
	ride := &models.Ride{
		ID:       uuid.New(),
		DriverID: driver,
		Bookings: []models.Booking{
			{ID: uuid.New(), RiderID: rider, BookedSeats: 1},
			{ID: uuid.New(), RiderID: other, BookedSeats: 2},
		},
	}

	if got := VisibleRide(ride, &models.Actor{ID: driver, Role: types.RoleDriver}); len(got.Bookings) != 2 {
		t.Fatalf("owner should see every booking")
	}

	got := VisibleRide(ride, &models.Actor{ID: rider, Role: types.RoleRider})
	if len(got.Bookings) != 1 || got.Bookings[0].RiderID != rider {
		t.Fatalf("rider should see only their booking, got %+v", got.Bookings)
	}
	if len(ride.Bookings) != 2 {
		t.Fatalf("original ride was modified")
	}
}
