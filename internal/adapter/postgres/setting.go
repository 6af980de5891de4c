package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepo is the policy store backed by the settings table.
type SettingRepo struct {
	db *pgxpool.Pool
}

func NewSettingRepo(db *pgxpool.Pool) *SettingRepo {
	return &SettingRepo{db: db}
}

func (r *SettingRepo) GetPolicy(ctx context.Context, key string) (_ string, _ bool, err error) {
	const op = "SettingRepo.GetPolicy"
	defer observe(op, time.Now(), &err)

	var value string
	err = TxorDB(ctx, r.db).QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// SetPolicy upserts a policy value.
func (r *SettingRepo) SetPolicy(ctx context.Context, key, value string) (err error) {
	const op = "SettingRepo.SetPolicy"
	defer observe(op, time.Now(), &err)

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
