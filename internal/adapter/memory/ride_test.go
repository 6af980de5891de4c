package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

func newRide(origin, dest string, departure time.Time) *models.Ride {
	return &models.Ride{
		ID:             uuid.New(),
		DriverID:       uuid.New(),
		Origin:         origin,
		Destination:    dest,
		PricePerSeat:   100,
		TotalSeats:     3,
		SeatsAvailable: 3,
		DepartureTime:  departure,
		Status:         types.RideActive,
		CreatedAt:      time.Now(),
	}
}

func TestSaveIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("Almaty", "Astana", time.Now().Add(time.Hour))
	if err := repo.Create(ctx, ride); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, _ := repo.Get(ctx, ride.ID)
	b, _ := repo.Get(ctx, ride.ID)

	a.SeatsAvailable = 1
	if err := repo.Save(ctx, a, b.Version); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if a.Version != 2 {
		t.Fatalf("version must be bumped, got %d", a.Version)
	}

	b.SeatsAvailable = 2
	if err := repo.Save(ctx, b, 1); !errors.Is(err, types.ErrVersionConflict) {
		t.Fatalf("stale save must conflict, got %v", err)
	}

	got, _ := repo.Get(ctx, ride.ID)
	if got.SeatsAvailable != 1 {
		t.Fatalf("stale write leaked: %d", got.SeatsAvailable)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("Almaty", "Astana", time.Now().Add(time.Hour))
	ride.Bookings = []models.Booking{{ID: uuid.New(), BookedSeats: 1, Status: types.BookingAccepted}}
	_ = repo.Create(ctx, ride)

	got, _ := repo.Get(ctx, ride.ID)
	got.Bookings[0].Status = types.BookingCancelledByRider

	again, _ := repo.Get(ctx, ride.ID)
	if again.Bookings[0].Status != types.BookingAccepted {
		t.Fatalf("mutating a read copy changed the store")
	}
}

func TestConcurrentSavesOneWins(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	ride := newRide("Almaty", "Astana", time.Now().Add(time.Hour))
	_ = repo.Create(ctx, ride)

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, _ := repo.Get(ctx, ride.ID)
			r.SeatsAvailable--
			if repo.Save(ctx, r, 1) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("exactly one writer must win, got %d", wins.Load())
	}
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	repo := NewRideRepo()
	now := time.Now()

	later := newRide("Almaty, Abay ave", "Astana", now.Add(3*time.Hour))
	sooner := newRide("almaty center", "Shymkent", now.Add(time.Hour))
	past := newRide("Almaty", "Astana", now.Add(-time.Hour))
	cancelled := newRide("Almaty", "Astana", now.Add(time.Hour))
	cancelled.Status = types.RideCancelled
	for _, r := range []*models.Ride{later, sooner, past, cancelled} {
		_ = repo.Create(ctx, r)
	}

	rides, total, err := repo.ListActive(ctx, models.RideFilter{Origin: "ALMATY"}, now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || rides[0].ID != sooner.ID || rides[1].ID != later.ID {
		t.Fatalf("unexpected listing: total=%d", total)
	}

	rides, total, _ = repo.ListActive(ctx, models.RideFilter{Destination: "astana"}, now)
	if total != 1 || rides[0].ID != later.ID {
		t.Fatalf("destination filter failed: total=%d", total)
	}

	to := now.Add(2 * time.Hour)
	rides, _, _ = repo.ListActive(ctx, models.RideFilter{DepartTo: &to}, now)
	if len(rides) != 1 || rides[0].ID != sooner.ID {
		t.Fatalf("date window failed")
	}

	edge := sooner.DepartureTime
	rides, _, _ = repo.ListActive(ctx, models.RideFilter{DepartFrom: &edge, DepartTo: &edge}, now)
	if len(rides) != 1 || rides[0].ID != sooner.ID {
		t.Fatalf("date window bounds must be inclusive, got %d rides", len(rides))
	}

	rides, total, _ = repo.ListActive(ctx, models.RideFilter{Filters: models.Filters{Page: 2, PageSize: 1}}, now)
	if total != 2 || len(rides) != 1 || rides[0].ID != later.ID {
		t.Fatalf("pagination failed")
	}
}

func TestDriverReputationCAS(t *testing.T) {
	ctx := context.Background()
	repo := NewDriverRepo()
	id := uuid.New()
	_ = repo.EnsureDriver(ctx, id, "Aidos", "+77010000000")

	rep, _ := repo.GetReputation(ctx, id)
	next := rep.Fold(5)
	if err := repo.SaveReputation(ctx, &next, rep.Version); err != nil {
		t.Fatalf("save: %v", err)
	}
	stale := rep.Fold(1)
	if err := repo.SaveReputation(ctx, &stale, rep.Version); !errors.Is(err, types.ErrVersionConflict) {
		t.Fatalf("stale reputation write must conflict, got %v", err)
	}

	_ = repo.EnsureDriver(ctx, id, "Aidos B.", "+77010000000")
	got, _ := repo.GetReputation(ctx, id)
	if got.NumRatings != 1 || got.AverageRating() != 5 || got.Name != "Aidos B." {
		t.Fatalf("unexpected reputation %+v", got)
	}
}
