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

// CancelRide cancels the whole ride. Passenger bookings keep their status.
func (s *RideService) CancelRide(ctx context.Context, actor *models.Actor, req models.CancelRideRequest) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "cancel_ride"), req.RideID.String())

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, wrap.Error(ctx, types.NewValidationError("reason_required", "cancellation reason is required"))
	}
	cutoff, err := s.driverCancellationCutoff(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	ride, err := s.mutateRide(ctx, "cancel_ride", req.RideID, func(ride *models.Ride) error {
		if err := requireOwner(actor, ride); err != nil {
			return err
		}
		if ride.Status.IsTerminal() {
			return types.ErrRideTerminal
		}
		if !s.now().Before(ride.DepartureTime.Add(-cutoff)) {
			return types.ErrCancellationWindowClosed
		}

		ride.Status = types.RideCancelled
		ride.CancellationReason = &reason
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RidesTotal.WithLabelValues(types.RideCancelled.String()).Inc()
	s.logger.Info(ctx, "ride cancelled by driver")
	s.emit(ctx, types.EventRideCancelled, ride, actor.ID, models.RideEventMessage{Reason: reason})
	return ride, nil
}

// CompleteRide closes the ride and moves every accepted booking to completed_by_driver.
// The seats those bookings held are released so the seat counter keeps matching the
// accepted bookings, which are none after completion.
func (s *RideService) CompleteRide(ctx context.Context, actor *models.Actor, rideID uuid.UUID) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "complete_ride"), rideID.String())

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	completed := 0
	ride, err := s.mutateRide(ctx, "complete_ride", rideID, func(ride *models.Ride) error {
		if err := requireOwner(actor, ride); err != nil {
			return err
		}
		if ride.Status.IsTerminal() {
			return types.ErrRideTerminal
		}

		completed = 0
		for i := range ride.Bookings {
			b := &ride.Bookings[i]
			if b.Status != types.BookingAccepted {
				continue
			}
			b.Status = types.BookingCompletedByDriver
			ride.SeatsAvailable += b.BookedSeats
			completed++
		}
		ride.Status = types.RideCompleted
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RidesTotal.WithLabelValues(types.RideCompleted.String()).Inc()
	s.logger.Info(ctx, "ride completed", "completed_bookings", completed)
	s.emit(ctx, types.EventRideCompleted, ride, actor.ID, models.RideEventMessage{
		Data: map[string]any{"completed_bookings": completed},
	})
	return ride, nil
}

// AdjustFare changes the price for future bookings. Existing bookings keep the price they were made at.
func (s *RideService) AdjustFare(ctx context.Context, actor *models.Actor, req models.AdjustFareRequest) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "adjust_fare"), req.RideID.String())

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if req.PricePerSeat <= 0 {
		return nil, wrap.Error(ctx, types.ErrInvalidPrice)
	}

	var previous float64
	ride, err := s.mutateRide(ctx, "adjust_fare", req.RideID, func(ride *models.Ride) error {
		if err := requireOwner(actor, ride); err != nil {
			return err
		}
		previous = ride.PricePerSeat
		ride.PricePerSeat = req.PricePerSeat
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.logger.Info(ctx, "fare adjusted", "previous_price", previous, "price_per_seat", ride.PricePerSeat)
	s.emit(ctx, types.EventFareAdjusted, ride, actor.ID, models.RideEventMessage{
		Data: map[string]any{"previous_price": previous, "price_per_seat": ride.PricePerSeat},
	})
	return ride, nil
}
