package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

// mutateRide loads the ride, applies mutate and saves it conditioned on the version that was read.
// On a version conflict the whole cycle is repeated from a fresh read, at most MaxWriteAttempts
// times, after which types.ErrRideChanged is returned. An error from mutate aborts without writing.
func (s *RideService) mutateRide(ctx context.Context, op string, rideID uuid.UUID, mutate func(ride *models.Ride) error) (*models.Ride, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxWriteAttempts; attempt++ {
		ride, err := s.rides.Get(ctx, rideID)
		if err != nil {
			return nil, err
		}
		version := ride.Version

		if err := mutate(ride); err != nil {
			return nil, err
		}
		ride.UpdatedAt = s.now()

		err = s.rides.Save(ctx, ride, version)
		if err == nil {
			return ride, nil
		}
		if !errors.Is(err, types.ErrVersionConflict) {
			return nil, fmt.Errorf("save ride: %w", err)
		}

		metrics.BookingWriteConflicts.WithLabelValues(op).Inc()
		s.logger.Debug(ctx, "ride changed concurrently, retrying", "attempt", attempt, "version", version)
		lastErr = err
	}
	return nil, types.ErrRideChanged.Wrap(lastErr)
}

// callUpstream runs fn with a per-call timeout and retries transient failures.
// Lookups that are definitively negative are not retried.
func (s *RideService) callUpstream(ctx context.Context, dependency string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.UpstreamAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		err = fn(callCtx)
		cancel()

		if err == nil || isPermanent(err) || ctx.Err() != nil {
			return err
		}
		if attempt == s.cfg.UpstreamAttempts {
			break
		}

		s.logger.Debug(wrap.WithAction(ctx, types.ActionExternalServiceFailed), "upstream call failed, retrying",
			"dependency", dependency,
			"attempt", attempt,
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return err
		case <-time.After(s.cfg.UpstreamBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func isPermanent(err error) bool {
	return errors.Is(err, types.ErrLocationNotFound) || errors.Is(err, types.ErrNoRoute)
}
