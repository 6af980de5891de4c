package ride

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
)

// PostRide creates an active ride. The route is resolved first; if that fails nothing is stored.
func (s *RideService) PostRide(ctx context.Context, actor *models.Actor, req models.PostRideRequest) (*models.PostRideResult, error) {
	ctx = wrap.WithAction(ctx, "post_ride")

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !actor.ApprovedToDrive {
		return nil, wrap.Error(ctx, types.ErrNotApprovedDriver)
	}

	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	switch {
	case req.Origin == "" || req.Destination == "":
		return nil, wrap.Error(ctx, types.ErrInvalidLocation)
	case req.PricePerSeat <= 0:
		return nil, wrap.Error(ctx, types.ErrInvalidPrice)
	case req.Seats <= 0:
		return nil, wrap.Error(ctx, types.ErrInvalidSeats)
	case !req.DepartureTime.After(s.now()):
		return nil, wrap.Error(ctx, types.ErrDepartureInPast)
	}

	estimate, err := s.estimate(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	now := s.now()
	ride := &models.Ride{
		ID:               uuid.New(),
		DriverID:         actor.ID,
		DriverName:       actor.Name,
		DriverPhone:      actor.Phone,
		Origin:           req.Origin,
		Destination:      req.Destination,
		OriginCoord:      &estimate.OriginCoord,
		DestinationCoord: &estimate.DestCoord,
		DistanceLabel:    &estimate.Route.DistanceLabel,
		DurationLabel:    &estimate.Route.DurationLabel,
		PricePerSeat:     req.PricePerSeat,
		TotalSeats:       req.Seats,
		SeatsAvailable:   req.Seats,
		DepartureTime:    req.DepartureTime.UTC(),
		Status:           types.RideActive,
		Bookings:         []models.Booking{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.drivers.EnsureDriver(ctx, actor.ID, actor.Name, actor.Phone); err != nil {
			return fmt.Errorf("ensure driver: %w", err)
		}
		if err := s.rides.Create(ctx, ride); err != nil {
			return fmt.Errorf("create ride: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RidesTotal.WithLabelValues(types.RideActive.String()).Inc()
	s.logger.Info(ctx, "ride posted", "seats", ride.TotalSeats, "departure_time", ride.DepartureTime)
	s.emit(ctx, types.EventRidePosted, ride, actor.ID, models.RideEventMessage{
		Data: map[string]any{"suggested_fare": estimate.SuggestedFare},
	})

	return &models.PostRideResult{Ride: ride, SuggestedFare: estimate.SuggestedFare}, nil
}

// CalculateSuggestedFare resolves both labels and prices the route at the fixed per-km rate.
func (s *RideService) CalculateSuggestedFare(ctx context.Context, origin, destination string) (*models.FareEstimate, error) {
	ctx = wrap.WithAction(ctx, "calculate_suggested_fare")

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, wrap.Error(ctx, types.ErrInvalidLocation)
	}

	estimate, err := s.estimate(ctx, origin, destination)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return estimate, nil
}

func (s *RideService) estimate(ctx context.Context, origin, destination string) (*models.FareEstimate, error) {
	var (
		est = &models.FareEstimate{Origin: origin, Destination: destination}
		err error
	)

	err = s.callUpstream(ctx, "geo", func(ctx context.Context) error {
		est.OriginCoord, err = s.geo.ResolveLocation(ctx, origin)
		return err
	})
	if err != nil {
		return nil, types.ErrRouteUnresolved.WithMessage("could not resolve origin %q", origin).Wrap(err)
	}

	err = s.callUpstream(ctx, "geo", func(ctx context.Context) error {
		est.DestCoord, err = s.geo.ResolveLocation(ctx, destination)
		return err
	})
	if err != nil {
		return nil, types.ErrRouteUnresolved.WithMessage("could not resolve destination %q", destination).Wrap(err)
	}

	err = s.callUpstream(ctx, "geo", func(ctx context.Context) error {
		est.Route, err = s.geo.EstimateRoute(ctx, est.OriginCoord, est.DestCoord)
		return err
	})
	if err != nil {
		return nil, types.ErrRouteUnresolved.Wrap(err)
	}

	est.RatePerKm = ridecalc.RatePerKm
	est.SuggestedFare = s.calc.SuggestedFare(est.Route.DistanceKm())
	return est, nil
}

// ReverseGeocode turns coordinates into a display address.
func (s *RideService) ReverseGeocode(ctx context.Context, coord models.Coordinate) (*models.Address, error) {
	ctx = wrap.WithAction(ctx, "reverse_geocode")

	if !coord.Valid() {
		return nil, wrap.Error(ctx, types.ErrInvalidCoords)
	}

	var address string
	err := s.callUpstream(ctx, "geo", func(ctx context.Context) error {
		var err error
		address, err = s.geo.ReverseGeocode(ctx, coord)
		return err
	})
	if err != nil {
		return nil, wrap.Error(ctx, types.ErrAddressUnavailable.Wrap(err))
	}
	return &models.Address{Coordinate: coord, Address: address}, nil
}
