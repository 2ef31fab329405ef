package trucks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/shared"
)

// Repository defines persistence for trucks and their bookings.
type Repository interface {
	Create(ctx context.Context, truck Truck) (Truck, error)
	Get(ctx context.Context, id int64) (Truck, error)
	List(ctx context.Context) ([]Truck, error)
	Update(ctx context.Context, truck Truck) error
	Delete(ctx context.Context, id, ownerID int64) error

	// Book inserts the booking and flips the truck to on_trip in one
	// transaction; a truck that is not available yields ErrUnavailable.
	Book(ctx context.Context, booking Booking) (Booking, error)
	Cancel(ctx context.Context, bookingID, renterID int64) error
	ActiveBookings(ctx context.Context, renterID int64) ([]Booking, error)
	// ReleaseExpired frees trucks whose trips ended before the cutoff.
	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const truckColumns = `id, owner_id, driver_name, route_from, route_to,
	available_capacity_kg, cost_per_km, availability, created_at`

// Create inserts a truck.
func (r *PGRepository) Create(ctx context.Context, truck Truck) (Truck, error) {
	const query = `INSERT INTO trucks (owner_id, driver_name, route_from, route_to,
		available_capacity_kg, cost_per_km, availability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		truck.OwnerID, truck.DriverName, truck.RouteFrom, truck.RouteTo,
		truck.AvailableCapacityKg, truck.CostPerKm, truck.Availability,
	).Scan(&truck.ID, &truck.CreatedAt)
	if err != nil {
		return Truck{}, err
	}
	return truck, nil
}

// Get returns one truck.
func (r *PGRepository) Get(ctx context.Context, id int64) (Truck, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+truckColumns+` FROM trucks WHERE id = $1`, id)
	truck, err := scanTruck(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Truck{}, shared.ErrNotFound
		}
		return Truck{}, err
	}
	return truck, nil
}

// List returns all trucks, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Truck, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+truckColumns+` FROM trucks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucksList []Truck
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucksList = append(trucksList, truck)
	}
	return trucksList, rows.Err()
}

// Update rewrites the owner's truck details.
func (r *PGRepository) Update(ctx context.Context, truck Truck) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trucks SET driver_name = $1, route_from = $2, route_to = $3,
		available_capacity_kg = $4, cost_per_km = $5, availability = $6
		WHERE id = $7 AND owner_id = $8`,
		truck.DriverName, truck.RouteFrom, truck.RouteTo,
		truck.AvailableCapacityKg, truck.CostPerKm, truck.Availability,
		truck.ID, truck.OwnerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the owner's truck.
func (r *PGRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM trucks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Book inserts the booking and marks the truck on_trip atomically.
func (r *PGRepository) Book(ctx context.Context, booking Booking) (Booking, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE trucks SET availability = $1 WHERE id = $2 AND availability = $3`,
			StatusOnTrip, booking.TruckID, StatusAvailable,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUnavailable
		}
		return tx.QueryRow(ctx,
			`INSERT INTO truck_bookings (truck_id, renter_id, start_date, end_date,
			estimated_km, total_cost, payment_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			booking.TruckID, booking.RenterID, booking.StartDate, booking.EndDate,
			booking.EstimatedKm, booking.TotalCost, booking.PaymentStatus,
		).Scan(&booking.ID)
	})
	if err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// Cancel voids the renter's pending booking and frees the truck atomically.
func (r *PGRepository) Cancel(ctx context.Context, bookingID, renterID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var truckID int64
		err := tx.QueryRow(ctx,
			`UPDATE truck_bookings SET payment_status = $1
			WHERE id = $2 AND renter_id = $3 AND payment_status = $4
			RETURNING truck_id`,
			PaymentCancelled, bookingID, renterID, PaymentPending,
		).Scan(&truckID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE trucks SET availability = $1 WHERE id = $2 AND availability = $3`,
			StatusAvailable, truckID, StatusOnTrip)
		return err
	})
}

// ActiveBookings returns the renter's non-cancelled bookings, newest first.
func (r *PGRepository) ActiveBookings(ctx context.Context, renterID int64) ([]Booking, error) {
	const query = `SELECT b.id, b.truck_id, b.renter_id, b.start_date, b.end_date,
		b.estimated_km, b.total_cost, b.payment_status, t.route_from || ' - ' || t.route_to
		FROM truck_bookings b
		JOIN trucks t ON t.id = b.truck_id
		WHERE b.renter_id = $1 AND b.payment_status <> $2
		ORDER BY b.start_date DESC`
	rows, err := r.pool.Query(ctx, query, renterID, PaymentCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		err := rows.Scan(
			&b.ID, &b.TruckID, &b.RenterID, &b.StartDate, &b.EndDate,
			&b.EstimatedKm, &b.TotalCost, &b.PaymentStatus, &b.TruckRoute,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ReleaseExpired frees trucks whose active trips ended before the cutoff.
func (r *PGRepository) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trucks SET availability = $1
		WHERE availability = $2 AND id IN (
			SELECT truck_id FROM truck_bookings
			WHERE payment_status <> $3 AND end_date < $4
		)`,
		StatusAvailable, StatusOnTrip, PaymentCancelled, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTruck(row pgx.Row) (Truck, error) {
	var truck Truck
	err := row.Scan(
		&truck.ID, &truck.OwnerID, &truck.DriverName, &truck.RouteFrom, &truck.RouteTo,
		&truck.AvailableCapacityKg, &truck.CostPerKm, &truck.Availability, &truck.CreatedAt,
	)
	return truck, err
}

var _ Repository = (*PGRepository)(nil)
