package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

// rideEntry guards one ride. Writers of different rides never contend.
type rideEntry struct {
	mu   sync.Mutex
	ride *models.Ride
}

// RideRepo is an in-process ride store. Every read returns a deep copy.
type RideRepo struct {
	mu    sync.RWMutex
	rides map[uuid.UUID]*rideEntry
}

func NewRideRepo() *RideRepo {
	return &RideRepo{rides: make(map[uuid.UUID]*rideEntry)}
}

func (r *RideRepo) entry(id uuid.UUID) (*rideEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rides[id]
	return e, ok
}

func (r *RideRepo) Create(_ context.Context, ride *models.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rides[ride.ID]; exists {
		return types.ErrVersionConflict
	}
	ride.Version = 1
	r.rides[ride.ID] = &rideEntry{ride: ride.Clone()}
	return nil
}

func (r *RideRepo) Get(_ context.Context, id uuid.UUID) (*models.Ride, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, types.ErrRideNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ride.Clone(), nil
}

// Save replaces the stored ride when its version still equals expectedVersion.
func (r *RideRepo) Save(_ context.Context, ride *models.Ride, expectedVersion int64) error {
	e, ok := r.entry(ride.ID)
	if !ok {
		return types.ErrRideNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ride.Version != expectedVersion {
		return types.ErrVersionConflict
	}
	ride.Version = expectedVersion + 1
	e.ride = ride.Clone()
	return nil
}

func (r *RideRepo) snapshot() []*models.Ride {
	r.mu.RLock()
	entries := make([]*rideEntry, 0, len(r.rides))
	for _, e := range r.rides {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]*models.Ride, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.ride.Clone())
		e.mu.Unlock()
	}
	return out
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *RideRepo) ListActive(_ context.Context, f models.RideFilter, now time.Time) ([]*models.Ride, int, error) {
	var matched []*models.Ride
	for _, ride := range r.snapshot() {
		if ride.Status != types.RideActive || !ride.DepartureTime.After(now) {
			continue
		}
		if !containsFold(ride.Origin, f.Origin) || !containsFold(ride.Destination, f.Destination) {
			continue
		}
		if f.DepartFrom != nil && ride.DepartureTime.Before(*f.DepartFrom) {
			continue
		}
		if f.DepartTo != nil && ride.DepartureTime.After(*f.DepartTo) {
			continue
		}
		matched = append(matched, ride)
	}

	slices.SortFunc(matched, func(a, b *models.Ride) int {
		return a.DepartureTime.Compare(b.DepartureTime)
	})

	total := len(matched)
	page := f.Filters.Normalize()
	start := min(page.Offset(), total)
	end := min(start+page.Limit(), total)
	return matched[start:end], total, nil
}

func (r *RideRepo) ListByDriver(_ context.Context, driverID uuid.UUID, status *types.RideStatus) ([]*models.Ride, error) {
	var out []*models.Ride
	for _, ride := range r.snapshot() {
		if ride.DriverID != driverID {
			continue
		}
		if status != nil && ride.Status != *status {
			continue
		}
		out = append(out, ride)
	}
	slices.SortFunc(out, func(a, b *models.Ride) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *RideRepo) ListByRider(_ context.Context, riderID uuid.UUID) ([]*models.Ride, error) {
	var out []*models.Ride
	for _, ride := range r.snapshot() {
		if ride.HasBookingBy(riderID) {
			out = append(out, ride)
		}
	}
	slices.SortFunc(out, func(a, b *models.Ride) int {
		return a.DepartureTime.Compare(b.DepartureTime)
	})
	return out, nil
}
