package tools

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/shared"
)

// Repository defines persistence for tools and their bookings.
type Repository interface {
	Create(ctx context.Context, tool Tool) (Tool, error)
	Get(ctx context.Context, id int64) (Tool, error)
	List(ctx context.Context) ([]Tool, error)
	Delete(ctx context.Context, id, ownerID int64) error

	// Book inserts the booking and flips the tool to rented in one
	// transaction; a tool that is not available yields ErrUnavailable.
	Book(ctx context.Context, booking Booking) (Booking, error)
	// Cancel voids the renter's pending booking and frees the tool.
	Cancel(ctx context.Context, bookingID, renterID int64) error
	ActiveBookings(ctx context.Context, renterID int64) ([]Booking, error)
	// ReleaseExpired frees tools whose bookings ended before the cutoff.
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

// Create inserts a tool.
func (r *PGRepository) Create(ctx context.Context, tool Tool) (Tool, error) {
	const query = `INSERT INTO tools (owner_id, name, description, rent_price_per_day,
		availability_status, location_latitude, location_longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		tool.OwnerID, tool.Name, tool.Description, tool.RentPricePerDay,
		tool.AvailabilityStatus, tool.Latitude, tool.Longitude,
	).Scan(&tool.ID, &tool.CreatedAt)
	if err != nil {
		return Tool{}, err
	}
	return tool, nil
}

// Get returns one tool.
func (r *PGRepository) Get(ctx context.Context, id int64) (Tool, error) {
	const query = `SELECT t.id, t.owner_id, t.name, t.description, t.rent_price_per_day,
		t.availability_status, t.location_latitude, t.location_longitude, t.created_at, u.full_name
		FROM tools t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1`
	var tool Tool
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tool.ID, &tool.OwnerID, &tool.Name, &tool.Description, &tool.RentPricePerDay,
		&tool.AvailabilityStatus, &tool.Latitude, &tool.Longitude, &tool.CreatedAt, &tool.OwnerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tool{}, shared.ErrNotFound
		}
		return Tool{}, err
	}
	return tool, nil
}

// List returns all tools, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Tool, error) {
	const query = `SELECT t.id, t.owner_id, t.name, t.description, t.rent_price_per_day,
		t.availability_status, t.location_latitude, t.location_longitude, t.created_at, u.full_name
		FROM tools t
		JOIN users u ON u.id = t.owner_id
		ORDER BY t.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var toolsList []Tool
	for rows.Next() {
		var tool Tool
		err := rows.Scan(
			&tool.ID, &tool.OwnerID, &tool.Name, &tool.Description, &tool.RentPricePerDay,
			&tool.AvailabilityStatus, &tool.Latitude, &tool.Longitude, &tool.CreatedAt, &tool.OwnerName,
		)
		if err != nil {
			return nil, err
		}
		toolsList = append(toolsList, tool)
	}
	return toolsList, rows.Err()
}

// Delete removes the owner's tool.
func (r *PGRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tools WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Book inserts the booking and marks the tool rented atomically. The
// conditional UPDATE serializes concurrent renters: only one flips the tool.
func (r *PGRepository) Book(ctx context.Context, booking Booking) (Booking, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE tools SET availability_status = $1 WHERE id = $2 AND availability_status = $3`,
			StatusRented, booking.ToolID, StatusAvailable,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUnavailable
		}
		return tx.QueryRow(ctx,
			`INSERT INTO tool_bookings (tool_id, renter_id, start_date, end_date, total_cost, payment_status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			booking.ToolID, booking.RenterID, booking.StartDate, booking.EndDate,
			booking.TotalCost, booking.PaymentStatus,
		).Scan(&booking.ID)
	})
	if err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// Cancel voids the booking and frees the tool atomically.
func (r *PGRepository) Cancel(ctx context.Context, bookingID, renterID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var toolID int64
		err := tx.QueryRow(ctx,
			`UPDATE tool_bookings SET payment_status = $1
			WHERE id = $2 AND renter_id = $3 AND payment_status = $4
			RETURNING tool_id`,
			PaymentCancelled, bookingID, renterID, PaymentPending,
		).Scan(&toolID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE tools SET availability_status = $1 WHERE id = $2`,
			StatusAvailable, toolID)
		return err
	})
}

// ActiveBookings returns the renter's non-cancelled bookings, newest first.
func (r *PGRepository) ActiveBookings(ctx context.Context, renterID int64) ([]Booking, error) {
	const query = `SELECT b.id, b.tool_id, b.renter_id, b.start_date, b.end_date,
		b.total_cost, b.payment_status, t.name
		FROM tool_bookings b
		JOIN tools t ON t.id = b.tool_id
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
			&b.ID, &b.ToolID, &b.RenterID, &b.StartDate, &b.EndDate,
			&b.TotalCost, &b.PaymentStatus, &b.ToolName,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ReleaseExpired frees tools whose active bookings ended before the cutoff.
func (r *PGRepository) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tools SET availability_status = $1
		WHERE availability_status = $2 AND id IN (
			SELECT tool_id FROM tool_bookings
			WHERE payment_status <> $3 AND end_date < $4
		)`,
		StatusAvailable, StatusRented, PaymentCancelled, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
