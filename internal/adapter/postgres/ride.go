package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
	"github.com/Temutjin2k/ride-share-system/pkg/postgres"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `
	id, driver_id, driver_name, driver_phone,
	origin, destination, origin_lat, origin_lng, destination_lat, destination_lng,
	distance_label, duration_label,
	price_per_seat, total_seats, seats_available, departure_time,
	status, cancellation_reason, bookings, version, created_at, updated_at`

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (err error) {
	const op = "RideRepo.Create"
	defer observe(op, time.Now(), &err)

	q := TxorDB(ctx, r.db)

	bookings, err := marshalBookings(ride.Bookings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	oLat, oLng := coordArgs(ride.OriginCoord)
	dLat, dLng := coordArgs(ride.DestinationCoord)

	query := `
		INSERT INTO rides (
			id, driver_id, driver_name, driver_phone,
			origin, destination, origin_lat, origin_lng, destination_lat, destination_lng,
			distance_label, duration_label,
			price_per_seat, total_seats, seats_available, departure_time,
			status, cancellation_reason, bookings, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1, $20, $20)`

	_, err = q.Exec(ctx, query,
		ride.ID, ride.DriverID, ride.DriverName, ride.DriverPhone,
		ride.Origin, ride.Destination, oLat, oLng, dLat, dLng,
		ride.DistanceLabel, ride.DurationLabel,
		ride.PricePerSeat, ride.TotalSeats, ride.SeatsAvailable, ride.DepartureTime,
		ride.Status.String(), ride.CancellationReason, bookings, ride.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrVersionConflict
		}
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrDriverNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	ride.Version = 1
	return nil
}

func (r *RideRepo) Get(ctx context.Context, id uuid.UUID) (_ *models.Ride, err error) {
	const op = "RideRepo.Get"
	defer observe(op, time.Now(), &err)

	q := TxorDB(ctx, r.db)

	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ride, nil
}

// Save writes the mutable part of the ride when the stored version still equals expectedVersion.
func (r *RideRepo) Save(ctx context.Context, ride *models.Ride, expectedVersion int64) (err error) {
	const op = "RideRepo.Save"
	defer observe(op, time.Now(), &err)

	q := TxorDB(ctx, r.db)

	bookings, err := marshalBookings(ride.Bookings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE rides
		SET price_per_seat = $2,
			seats_available = $3,
			status = $4,
			cancellation_reason = $5,
			bookings = $6,
			updated_at = $7,
			version = version + 1
		WHERE id = $1 AND version = $8
		RETURNING version`

	var version int64
	err = q.QueryRow(ctx, query,
		ride.ID,
		ride.PricePerSeat,
		ride.SeatsAvailable,
		ride.Status.String(),
		ride.CancellationReason,
		bookings,
		ride.UpdatedAt,
		expectedVersion,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, q, ride.ID)
		}
		if postgres.IsCheckViolation(err) {
			return fmt.Errorf("%s: seat counter out of range: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	ride.Version = version
	return nil
}

func (r *RideRepo) missOrConflict(ctx context.Context, q Querier, id uuid.UUID) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rides WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("RideRepo.Save: check existence: %w", err)
	}
	if !exists {
		return types.ErrRideNotFound
	}
	return types.ErrVersionConflict
}

func (r *RideRepo) ListActive(ctx context.Context, filter models.RideFilter, now time.Time) (_ []*models.Ride, _ int, err error) {
	const op = "RideRepo.ListActive"
	defer observe(op, time.Now(), &err)

	q := TxorDB(ctx, r.db)

	var (
		conds = []string{"status = 'active'", "departure_time > $1"}
		args  = []any{now}
	)
	if filter.Origin != "" {
		args = append(args, "%"+escapeLike(filter.Origin)+"%")
		conds = append(conds, fmt.Sprintf("origin ILIKE $%d", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, "%"+escapeLike(filter.Destination)+"%")
		conds = append(conds, fmt.Sprintf("destination ILIKE $%d", len(args)))
	}
	if filter.DepartFrom != nil {
		args = append(args, *filter.DepartFrom)
		conds = append(conds, fmt.Sprintf("departure_time >= $%d", len(args)))
	}
	if filter.DepartTo != nil {
		args = append(args, *filter.DepartTo)
		conds = append(conds, fmt.Sprintf("departure_time <= $%d", len(args)))
	}

	f := filter.Filters.Normalize()
	args = append(args, f.Limit(), f.Offset())

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM rides
		WHERE %s
		ORDER BY departure_time ASC, id
		LIMIT $%d OFFSET $%d`,
		rideColumns, strings.Join(conds, " AND "), len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		rides []*models.Ride
		total int
	)
	for rows.Next() {
		ride, err := scanRide(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	// an offset past the end returns no rows and no window count
	if len(rides) == 0 && f.Offset() > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM rides WHERE %s`, strings.Join(conds, " AND "))
		if err := q.QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("%s: count: %w", op, err)
		}
	}

	return rides, total, nil
}

func (r *RideRepo) ListByDriver(ctx context.Context, driverID uuid.UUID, status *types.RideStatus) (_ []*models.Ride, err error) {
	const op = "RideRepo.ListByDriver"
	defer observe(op, time.Now(), &err)

	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1`
	args := []any{driverID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, status.String())
	}
	query += ` ORDER BY created_at DESC`

	rides, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rides, nil
}

func (r *RideRepo) ListByRider(ctx context.Context, riderID uuid.UUID) (_ []*models.Ride, err error) {
	const op = "RideRepo.ListByRider"
	defer observe(op, time.Now(), &err)

	containment, err := json.Marshal([]map[string]string{{"rider_id": riderID.String()}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + rideColumns + ` FROM rides WHERE bookings @> $1::jsonb ORDER BY departure_time ASC`

	rides, err := r.list(ctx, query, string(containment))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rides, nil
}

func (r *RideRepo) list(ctx context.Context, query string, args ...any) ([]*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := make([]*models.Ride, 0)
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// scanRide reads rideColumns in order, followed by any extra destinations.
func scanRide(row pgx.Row, extra ...any) (*models.Ride, error) {
	var (
		ride                   models.Ride
		status                 string
		bookings               []byte
		oLat, oLng, dLat, dLng *float64
	)

	dest := []any{
		&ride.ID, &ride.DriverID, &ride.DriverName, &ride.DriverPhone,
		&ride.Origin, &ride.Destination, &oLat, &oLng, &dLat, &dLng,
		&ride.DistanceLabel, &ride.DurationLabel,
		&ride.PricePerSeat, &ride.TotalSeats, &ride.SeatsAvailable, &ride.DepartureTime,
		&status, &ride.CancellationReason, &bookings, &ride.Version, &ride.CreatedAt, &ride.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	ride.Status = types.RideStatus(status)
	ride.OriginCoord = coordFrom(oLat, oLng)
	ride.DestinationCoord = coordFrom(dLat, dLng)
	ride.Bookings = []models.Booking{}
	if len(bookings) > 0 {
		if err := json.Unmarshal(bookings, &ride.Bookings); err != nil {
			return nil, fmt.Errorf("decode bookings: %w", err)
		}
	}
	return &ride, nil
}

func marshalBookings(bookings []models.Booking) ([]byte, error) {
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return json.Marshal(bookings)
}

func coordArgs(c *models.Coordinate) (lat, lng *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Lat, &c.Lng
}

func coordFrom(lat, lng *float64) *models.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &models.Coordinate{Lat: *lat, Lng: *lng}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// observe records the query outcome. Domain errors are not database failures.
func observe(op string, start time.Time, err *error) {
	var e error
	if err != nil && *err != nil {
		var te *types.Error
		if !errors.As(*err, &te) && !errors.Is(*err, types.ErrVersionConflict) {
			e = *err
		}
	}
	metrics.RecordDatabaseQuery(op, e, time.Since(start))
}
