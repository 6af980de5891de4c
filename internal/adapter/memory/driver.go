package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

type DriverRepo struct {
	mu      sync.Mutex
	drivers map[uuid.UUID]models.DriverReputation
}

func NewDriverRepo() *DriverRepo {
	return &DriverRepo{drivers: make(map[uuid.UUID]models.DriverReputation)}
}

// EnsureDriver registers the driver or refreshes the contact snapshot. Ratings are untouched.
func (r *DriverRepo) EnsureDriver(_ context.Context, id uuid.UUID, name, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		d = models.DriverReputation{DriverID: id, Version: 1}
	}
	d.Name, d.Phone = name, phone
	r.drivers[id] = d
	return nil
}

func (r *DriverRepo) GetReputation(_ context.Context, id uuid.UUID) (*models.DriverReputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return &d, nil
}

func (r *DriverRepo) GetReputations(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.DriverReputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[uuid.UUID]models.DriverReputation, len(ids))
	for _, id := range ids {
		if d, ok := r.drivers[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (r *DriverRepo) SaveReputation(_ context.Context, rep *models.DriverReputation, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.drivers[rep.DriverID]
	if !ok {
		return types.ErrDriverNotFound
	}
	if cur.Version != expectedVersion {
		return types.ErrVersionConflict
	}
	if rep.NumRatings < cur.NumRatings {
		return types.ErrVersionConflict
	}
	rep.Version = expectedVersion + 1
	r.drivers[rep.DriverID] = *rep
	return nil
}
