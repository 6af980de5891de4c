package ride

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

type passengerKey struct {
	phone, pickup, dropoff string
}

func keyOf(phone, pickup, dropoff string) passengerKey {
	return passengerKey{
		phone:   strings.TrimSpace(phone),
		pickup:  strings.TrimSpace(pickup),
		dropoff: strings.TrimSpace(dropoff),
	}
}

func validateGroups(groups []models.PassengerGroup) error {
	if len(groups) == 0 {
		return types.ErrEmptyPassengers
	}
	for _, g := range groups {
		if g.BookedSeats <= 0 {
			return types.ErrInvalidSeats
		}
		if strings.TrimSpace(g.PickupAddress) == "" || strings.TrimSpace(g.DropoffAddress) == "" || strings.TrimSpace(g.ContactPhone) == "" {
			return types.NewValidationError("invalid_passenger", "pickup address, dropoff address and contact phone are required")
		}
	}
	return nil
}

// BookSeats reserves seats for one or more passenger groups in a single conditional write.
// Either every group is booked or none is.
func (s *RideService) BookSeats(ctx context.Context, actor *models.Actor, req models.BookSeatsRequest) (*models.BookingResult, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "book_seats"), req.RideID.String())

	result, err := s.bookSeats(ctx, actor, req)
	if err != nil {
		metrics.RecordBooking(string(types.KindOf(err)), 0)
		return nil, wrap.Error(ctx, err)
	}

	seats := 0
	for _, b := range result.Bookings {
		seats += b.BookedSeats
	}
	metrics.RecordBooking("success", seats)
	s.logger.Info(ctx, "seats booked", "seats", seats, "seats_available", result.Ride.SeatsAvailable)
	s.emit(ctx, types.EventSeatsBooked, result.Ride, actor.ID, models.RideEventMessage{
		BookingIDs: bookingIDs(result.Bookings),
		Data:       map[string]any{"booked_seats": seats},
	})
	return result, nil
}

func (s *RideService) bookSeats(ctx context.Context, actor *models.Actor, req models.BookSeatsRequest) (*models.BookingResult, error) {
	if err := requireRole(actor, types.RoleRider); err != nil {
		return nil, err
	}
	if err := validateGroups(req.Passengers); err != nil {
		return nil, err
	}

	available, err := s.bookingAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, types.ErrBookingDisabled
	}
	lead, err := s.bookingLeadTime(ctx)
	if err != nil {
		return nil, err
	}

	var created []models.Booking
	ride, err := s.mutateRide(ctx, "book_seats", req.RideID, func(ride *models.Ride) error {
		if ride.DriverID == actor.ID {
			return types.ErrOwnRide
		}
		if ride.Status != types.RideActive {
			return types.ErrRideNotActive
		}

		now := s.now()
		if !now.Before(ride.DepartureTime.Add(-lead)) {
			return types.ErrBookingWindowClosed
		}

		held := make(map[passengerKey]bool)
		for _, b := range ride.Bookings {
			if b.RiderID == actor.ID && b.Status == types.BookingAccepted {
				held[keyOf(b.ContactPhone, b.PickupAddress, b.DropoffAddress)] = true
			}
		}
		requested := 0
		for _, g := range req.Passengers {
			k := keyOf(g.ContactPhone, g.PickupAddress, g.DropoffAddress)
			if held[k] {
				return types.ErrDuplicateBooking
			}
			held[k] = true
			requested += g.BookedSeats
		}

		if requested > ride.SeatsAvailable {
			return types.InsufficientSeats(ride.SeatsAvailable)
		}

		created = make([]models.Booking, 0, len(req.Passengers))
		for _, g := range req.Passengers {
			created = append(created, models.Booking{
				ID:             uuid.New(),
				RiderID:        actor.ID,
				BookedSeats:    g.BookedSeats,
				PickupAddress:  strings.TrimSpace(g.PickupAddress),
				DropoffAddress: strings.TrimSpace(g.DropoffAddress),
				ContactPhone:   strings.TrimSpace(g.ContactPhone),
				PricePerSeat:   ride.PricePerSeat,
				Status:         types.BookingAccepted,
				CreatedAt:      now,
			})
		}
		ride.Bookings = append(ride.Bookings, created...)
		ride.SeatsAvailable -= requested
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.BookingResult{Ride: ride, Bookings: created}, nil
}

// CancelBooking cancels one of the rider's accepted bookings and returns its seats.
// Without a booking id the first accepted booking of the rider is cancelled.
func (s *RideService) CancelBooking(ctx context.Context, actor *models.Actor, req models.CancelBookingRequest) (*models.CancelBookingResult, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "cancel_booking"), req.RideID.String())

	if err := requireRole(actor, types.RoleRider); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	cutoff, err := s.riderCancellationCutoff(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	var cancelled models.Booking
	ride, err := s.mutateRide(ctx, "cancel_booking", req.RideID, func(ride *models.Ride) error {
		idx := -1
		for i, b := range ride.Bookings {
			if b.RiderID != actor.ID || b.Status != types.BookingAccepted {
				continue
			}
			if req.BookingID == nil || b.ID == *req.BookingID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return types.ErrNoActiveBooking
		}

		if !s.now().Before(ride.DepartureTime.Add(-cutoff)) {
			return types.ErrCancellationWindowClosed
		}

		b := &ride.Bookings[idx]
		b.Status = types.BookingCancelledByRider
		b.CancellationReason = reasonOrDefault(req.Reason)
		ride.SeatsAvailable += b.BookedSeats
		cancelled = *b
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ctx = wrap.WithBookingID(ctx, cancelled.ID.String())
	s.logger.Info(ctx, "booking cancelled by rider", "seats_released", cancelled.BookedSeats)
	s.emit(ctx, types.EventBookingCancelled, ride, actor.ID, models.RideEventMessage{
		BookingIDs: []uuid.UUID{cancelled.ID},
		Reason:     *cancelled.CancellationReason,
	})
	return &models.CancelBookingResult{Ride: ride, Booking: cancelled}, nil
}

// CancelPassengerBooking lets the driver drop a single accepted booking from their ride.
func (s *RideService) CancelPassengerBooking(ctx context.Context, actor *models.Actor, req models.CancelPassengerRequest) (*models.CancelBookingResult, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "cancel_passenger_booking"), req.RideID.String())
	ctx = wrap.WithBookingID(ctx, req.BookingID.String())

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, wrap.Error(ctx, types.NewValidationError("reason_required", "cancellation reason is required"))
	}

	var cancelled models.Booking
	ride, err := s.mutateRide(ctx, "cancel_passenger_booking", req.RideID, func(ride *models.Ride) error {
		if err := requireOwner(actor, ride); err != nil {
			return err
		}
		idx := ride.FindBooking(req.BookingID)
		if idx < 0 {
			return types.ErrBookingNotFound
		}
		b := &ride.Bookings[idx]
		if b.Status != types.BookingAccepted {
			return types.ErrBookingNotActive
		}

		b.Status = types.BookingCancelledByDriver
		b.CancellationReason = reasonOrDefault(req.Reason)
		ride.SeatsAvailable += b.BookedSeats
		cancelled = *b
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.logger.Info(ctx, "passenger booking cancelled by driver", "seats_released", cancelled.BookedSeats)
	s.emit(ctx, types.EventPassengerCancelled, ride, actor.ID, models.RideEventMessage{
		BookingIDs: []uuid.UUID{cancelled.ID},
		Reason:     *cancelled.CancellationReason,
		Data:       map[string]any{"rider_id": cancelled.RiderID},
	})
	return &models.CancelBookingResult{Ride: ride, Booking: cancelled}, nil
}
