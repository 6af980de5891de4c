package ride

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

// GetActiveRides lists active rides that have not departed yet, soonest first,
// each with its driver's current rating.
func (s *RideService) GetActiveRides(ctx context.Context, filter models.RideFilter) (*models.RideList, error) {
	ctx = wrap.WithAction(ctx, "get_active_rides")

	filter.Origin = strings.TrimSpace(filter.Origin)
	filter.Destination = strings.TrimSpace(filter.Destination)
	filter.Filters = filter.Filters.Normalize()

	var (
		rides []*models.Ride
		total int
		reps  map[uuid.UUID]models.DriverReputation
	)
	err := s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rides, total, err = s.rides.ListActive(ctx, filter, s.now())
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(rides))
		for _, r := range rides {
			ids = append(ids, r.DriverID)
		}
		reps, err = s.drivers.GetReputations(ctx, ids)
		return err
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	list := &models.RideList{
		Rides:    make([]models.ListedRide, 0, len(rides)),
		Metadata: models.CalculateMetadata(total, filter.Page, filter.PageSize),
	}
	for _, r := range rides {
		rep := reps[r.DriverID]
		list.Rides = append(list.Rides, models.ListedRide{
			Ride:             r,
			DriverRating:     rep.AverageRating(),
			DriverNumRatings: rep.NumRatings,
		})
	}
	return list, nil
}

func (s *RideService) GetRide(ctx context.Context, rideID uuid.UUID) (*models.Ride, error) {
	ctx = wrap.WithRideID(wrap.WithAction(ctx, "get_ride"), rideID.String())

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return ride, nil
}

// GetPostedRides returns every ride posted by the driver, newest first.
func (s *RideService) GetPostedRides(ctx context.Context, actor *models.Actor) ([]*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "get_posted_rides")

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	rides, err := s.rides.ListByDriver(ctx, actor.ID, nil)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return rides, nil
}

// GetBookedRides returns every ride the rider holds a booking on, by departure.
func (s *RideService) GetBookedRides(ctx context.Context, actor *models.Actor) ([]*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "get_booked_rides")

	if err := requireRole(actor, types.RoleRider); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	rides, err := s.rides.ListByRider(ctx, actor.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return rides, nil
}

// PublicPolicy exposes the effective policy to clients.
func (s *RideService) PublicPolicy(ctx context.Context) (models.PublicPolicy, error) {
	ctx = wrap.WithAction(ctx, "get_policy")

	p, err := s.Policy(ctx)
	if err != nil {
		return models.PublicPolicy{}, wrap.Error(ctx, err)
	}
	return p.Public(), nil
}
