package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

type RideEventRepo struct {
	db *pgxpool.Pool
}

func NewRideEventRepo(db *pgxpool.Pool) *RideEventRepo {
	return &RideEventRepo{db: db}
}

// CreateEvent appends a ride event to the audit log.
func (r *RideEventRepo) CreateEvent(ctx context.Context, rideID uuid.UUID, eventType types.RideEvent, eventData json.RawMessage) (err error) {
	const op = "RideEventRepo.CreateEvent"
	defer observe(op, time.Now(), &err)

	query := `INSERT INTO ride_events (ride_id, event_type, event_data)
			  VALUES ($1, $2, $3)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, rideID, eventType.String(), []byte(eventData)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
