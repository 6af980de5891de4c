package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{
		db: db,
	}
}

// EnsureDriver registers the driver or refreshes the contact snapshot. The version is left alone
// so that a concurrent rating is not invalidated by a profile refresh.
func (r *DriverRepo) EnsureDriver(ctx context.Context, id uuid.UUID, name, phone string) (err error) {
	const op = "DriverRepo.EnsureDriver"
	defer observe(op, time.Now(), &err)

	query := `
		INSERT INTO drivers (id, name, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			phone = EXCLUDED.phone`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, id, name, phone); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *DriverRepo) GetReputation(ctx context.Context, id uuid.UUID) (_ *models.DriverReputation, err error) {
	const op = "DriverRepo.GetReputation"
	defer observe(op, time.Now(), &err)

	query := `
		SELECT id, name, phone, rating_sum, num_ratings, version, updated_at
		FROM drivers
		WHERE id = $1`

	var d models.DriverReputation
	err = TxorDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&d.DriverID, &d.Name, &d.Phone, &d.RatingSum, &d.NumRatings, &d.Version, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDriverNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// GetReputations loads several drivers at once. Unknown ids are absent from the result.
func (r *DriverRepo) GetReputations(ctx context.Context, ids []uuid.UUID) (_ map[uuid.UUID]models.DriverReputation, err error) {
	const op = "DriverRepo.GetReputations"
	out := make(map[uuid.UUID]models.DriverReputation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observe(op, time.Now(), &err)

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	query := `
		SELECT id, name, phone, rating_sum, num_ratings, version, updated_at
		FROM drivers
		WHERE id = ANY($1::uuid[])`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.DriverReputation
		if err := rows.Scan(&d.DriverID, &d.Name, &d.Phone, &d.RatingSum, &d.NumRatings, &d.Version, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out[d.DriverID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *DriverRepo) SaveReputation(ctx context.Context, rep *models.DriverReputation, expectedVersion int64) (err error) {
	const op = "DriverRepo.SaveReputation"
	defer observe(op, time.Now(), &err)

	q := TxorDB(ctx, r.db)

	query := `
		UPDATE drivers
		SET rating_sum = $2,
			num_ratings = $3,
			updated_at = $4,
			version = version + 1
		WHERE id = $1 AND version = $5
		RETURNING version`

	var version int64
	err = q.QueryRow(ctx, query, rep.DriverID, rep.RatingSum, rep.NumRatings, rep.UpdatedAt, expectedVersion).Scan(&version)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, err)
		}
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`, rep.DriverID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: check existence: %w", op, err)
		}
		if !exists {
			return types.ErrDriverNotFound
		}
		return types.ErrVersionConflict
	}

	rep.Version = version
	return nil
}
