package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/shared"
)

// ListFilters narrows request listings.
type ListFilters struct {
	FarmerID *int64
	AdminID  *int64
	BuyerID  *int64
	Status   RequestStatus
	ForSale  bool
}

// Repository defines persistence for storage requests.
type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	Get(ctx context.Context, id int64) (Request, error)
	List(ctx context.Context, filters ListFilters) ([]Request, error)
	// Approve flips a pending request to approved and lists it on the
	// marketplace in one transaction.
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	// Buy marks an approved, unsold request as sold to buyerID and closes the
	// matching marketplace listing in one transaction.
	Buy(ctx context.Context, id, buyerID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const requestColumns = `r.id, r.farmer_id, r.godown_id, r.product_name, r.quantity_kg, r.price_per_kg,
	r.start_date, r.end_date, r.temperature_required, r.humidity_required, r.total_storage_fee,
	r.status, r.is_sold, r.buyer_id, r.created_at,
	g.name, g.city, g.address, g.phone, g.location_latitude, g.location_longitude,
	u.full_name, u.phone`

const requestFrom = ` FROM storage_requests r
	JOIN godowns g ON g.id = r.godown_id
	JOIN users u ON u.id = r.farmer_id`

// Create inserts a storage request.
func (r *PGRepository) Create(ctx context.Context, req Request) (Request, error) {
	const query = `INSERT INTO storage_requests (farmer_id, godown_id, product_name, quantity_kg,
		price_per_kg, start_date, end_date, temperature_required, humidity_required,
		total_storage_fee, status, is_sold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		req.FarmerID, req.GodownID, req.ProductName, req.QuantityKg, req.PricePerKg,
		req.StartDate, req.EndDate, req.TemperatureRequired, req.HumidityRequired,
		req.TotalStorageFee, req.Status,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// Get returns one request with joined godown and farmer details.
func (r *PGRepository) Get(ctx context.Context, id int64) (Request, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+requestFrom+` WHERE r.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, shared.ErrNotFound
		}
		return Request{}, err
	}
	return req, nil
}

// List returns requests matching the filters, newest first.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Request, error) {
	query := `SELECT ` + requestColumns + requestFrom + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.FarmerID != nil {
		argCount++
		query += ` AND r.farmer_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.FarmerID)
	}
	if filters.AdminID != nil {
		argCount++
		query += ` AND g.admin_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.AdminID)
	}
	if filters.BuyerID != nil {
		argCount++
		query += ` AND r.buyer_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.BuyerID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND r.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.ForSale {
		query += ` AND r.is_sold = false`
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Approve transitions pending -> approved and inserts the marketplace listing
// atomically. The conditional UPDATE makes concurrent decisions safe: only
// one transaction observes the pending row.
func (r *PGRepository) Approve(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE storage_requests SET status = $1 WHERE id = $2 AND status = $3`,
			StatusApproved, id, StatusPending,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInvalidStatus
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO marketplace_items (godown_id, farmer_id, request_id, product_name, quantity_kg, price_per_kg, status, created_at)
			SELECT godown_id, farmer_id, id, product_name, quantity_kg, price_per_kg, 'available', now()
			FROM storage_requests WHERE id = $1`,
			id,
		)
		return err
	})
}

// Reject transitions pending -> rejected.
func (r *PGRepository) Reject(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE storage_requests SET status = $1 WHERE id = $2 AND status = $3`,
		StatusRejected, id, StatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidStatus
	}
	return nil
}

// Buy marks the produce sold and closes its marketplace listing atomically.
func (r *PGRepository) Buy(ctx context.Context, id, buyerID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE storage_requests SET is_sold = true, buyer_id = $1, status = $2
			WHERE id = $3 AND status = $4 AND is_sold = false`,
			buyerID, StatusSold, id, StatusApproved,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrInvalidStatus
		}
		_, err = tx.Exec(ctx,
			`UPDATE marketplace_items SET status = 'sold' WHERE request_id = $1`,
			id,
		)
		return err
	})
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.FarmerID, &req.GodownID, &req.ProductName, &req.QuantityKg, &req.PricePerKg,
		&req.StartDate, &req.EndDate, &req.TemperatureRequired, &req.HumidityRequired, &req.TotalStorageFee,
		&req.Status, &req.IsSold, &req.BuyerID, &req.CreatedAt,
		&req.GodownName, &req.GodownCity, &req.GodownAddress, &req.GodownPhone, &req.GodownLat, &req.GodownLng,
		&req.FarmerName, &req.FarmerPhone,
	)
	return req, err
}

var _ Repository = (*PGRepository)(nil)
