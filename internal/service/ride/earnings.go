package ride

import (
	"context"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/internal/service/ridecalc"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
)

// GetDriverEarnings sums completed bookings over the driver's completed rides, net of commission.
// Each booking is settled at the price it was booked at.
func (s *RideService) GetDriverEarnings(ctx context.Context, actor *models.Actor) (*models.Earnings, error) {
	ctx = wrap.WithAction(ctx, "get_driver_earnings")

	if err := requireRole(actor, types.RoleDriver); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	rate, err := s.commissionRate(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	var rides []*models.Ride
	err = s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		status := types.RideCompleted
		var err error
		rides, err = s.rides.ListByDriver(ctx, actor.ID, &status)
		return err
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return computeEarnings(actor, rides, rate), nil
}

func computeEarnings(actor *models.Actor, rides []*models.Ride, rate float64) *models.Earnings {
	e := &models.Earnings{DriverID: actor.ID, CommissionRate: rate}
	for _, r := range rides {
		if r.Status != types.RideCompleted {
			continue
		}
		seats := 0
		for _, b := range r.Bookings {
			if b.Status != types.BookingCompletedByDriver {
				continue
			}
			seats += b.BookedSeats
			e.GrossEarnings += b.PricePerSeat * float64(b.BookedSeats)
		}
		if seats > 0 {
			e.CompletedRideCount++
		}
	}
	e.TotalEarnings = ridecalc.Round2(e.GrossEarnings * (1 - rate))
	e.GrossEarnings = ridecalc.Round2(e.GrossEarnings)
	return e
}
