package ride

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

// RateDriver folds a 1..5 rating into the driver's reputation. A rider rates a completed trip once:
// all of their completed bookings on the ride are flagged as rated in the same transaction.
func (s *RideService) RateDriver(ctx context.Context, actor *models.Actor, req models.RateDriverRequest) (*models.RatingResult, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "rate_driver"), req.RideID.String())

	if err := requireRole(actor, types.RoleRider); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, wrap.Error(ctx, types.ErrInvalidRating)
	}

	var (
		result  *models.RatingResult
		ride    *models.Ride
		lastErr error
	)
	for attempt := 1; attempt <= s.cfg.MaxWriteAttempts; attempt++ {
		err := s.trm.Do(ctx, func(ctx context.Context) error {
			var err error
			ride, err = s.rides.Get(ctx, req.RideID)
			if err != nil {
				return err
			}
			rideVersion := ride.Version

			if ride.Status != types.RideCompleted {
				return types.ErrRideNotCompleted
			}
			if err := markRated(ride, actor); err != nil {
				return err
			}
			ride.UpdatedAt = s.now()

			rep, err := s.drivers.GetReputation(ctx, ride.DriverID)
			if err != nil {
				return err
			}
			repVersion := rep.Version
			next := rep.Fold(req.Rating)
			next.UpdatedAt = s.now()

			if err := s.rides.Save(ctx, ride, rideVersion); err != nil {
				return err
			}
			if err := s.drivers.SaveReputation(ctx, &next, repVersion); err != nil {
				return err
			}

			result = &models.RatingResult{
				DriverID:      next.DriverID,
				AverageRating: next.AverageRating(),
				NumRatings:    next.NumRatings,
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, types.ErrVersionConflict) {
			if types.KindOf(err) == types.KindInternal {
				err = fmt.Errorf("rate driver: %w", err)
			}
			return nil, wrap.Error(ctx, err)
		}

		metrics.BookingWriteConflicts.WithLabelValues("rate_driver").Inc()
		s.logger.Debug(ctx, "rating conflicted, retrying", "attempt", attempt)
		lastErr = err
		result = nil
	}
	if result == nil {
		return nil, wrap.Error(ctx, types.ErrRideChanged.Wrap(lastErr))
	}

	s.logger.Info(ctx, "driver rated", "rating", req.Rating, "average_rating", result.AverageRating)
	s.emit(ctx, types.EventDriverRated, ride, actor.ID, models.RideEventMessage{
		Data: map[string]any{"rating": req.Rating, "average_rating": result.AverageRating, "num_ratings": result.NumRatings},
	})
	return result, nil
}

// markRated flags the rider's completed bookings. It fails when there are none or all are rated.
func markRated(ride *models.Ride, actor *models.Actor) error {
	completed, unrated := 0, 0
	for i := range ride.Bookings {
		b := &ride.Bookings[i]
		if b.RiderID != actor.ID || b.Status != types.BookingCompletedByDriver {
			continue
		}
		completed++
		if !b.Rated {
			unrated++
			b.Rated = true
		}
	}
	switch {
	case completed == 0:
		return types.ErrNotCompletedPassenger
	case unrated == 0:
		return types.ErrAlreadyRated
	}
	return nil
}
