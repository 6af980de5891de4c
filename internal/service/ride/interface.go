package ride

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

// RideRepo persists ride aggregates. Save is a conditional write: it succeeds only when the
// stored version equals expectedVersion, bumps ride.Version on success and returns
// types.ErrVersionConflict otherwise.
type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	Get(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	Save(ctx context.Context, ride *models.Ride, expectedVersion int64) error
	// ListActive returns one page of active rides departing after now and the total match count.
	ListActive(ctx context.Context, filter models.RideFilter, now time.Time) ([]*models.Ride, int, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, status *types.RideStatus) ([]*models.Ride, error)
	ListByRider(ctx context.Context, riderID uuid.UUID) ([]*models.Ride, error)
}

// DriverRepo owns driver reputation. SaveReputation is conditional on the version like RideRepo.Save.
type DriverRepo interface {
	EnsureDriver(ctx context.Context, id uuid.UUID, name, phone string) error
	GetReputation(ctx context.Context, id uuid.UUID) (*models.DriverReputation, error)
	GetReputations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.DriverReputation, error)
	SaveReputation(ctx context.Context, rep *models.DriverReputation, expectedVersion int64) error
}

// PolicyStore is a key/value store. found=false means the caller should use its default.
type PolicyStore interface {
	GetPolicy(ctx context.Context, key string) (value string, found bool, err error)
}

type GeoOracle interface {
	ResolveLocation(ctx context.Context, label string) (models.Coordinate, error)
	EstimateRoute(ctx context.Context, origin, dest models.Coordinate) (models.Route, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error)
}

type FareCalculator interface {
	SuggestedFare(distanceKm float64) float64
}

type EventRepo interface {
	CreateEvent(ctx context.Context, rideID uuid.UUID, eventType types.RideEvent, data json.RawMessage) error
}

type Publisher interface {
	PublishRideEvent(ctx context.Context, msg models.RideEventMessage) error
}

type InventoryNotifier interface {
	BroadcastInventory(ctx context.Context, snapshot models.InventorySnapshot)
}
