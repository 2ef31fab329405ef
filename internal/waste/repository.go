package waste

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/shared"
)

// ListFilters narrows waste listings.
type ListFilters struct {
	FarmerID        *int64
	ExcludeFarmerID *int64
	ForSale         *bool
	Unsold          bool
}

// Repository defines persistence for waste lots and their sales.
type Repository interface {
	Create(ctx context.Context, w Waste) (Waste, error)
	Get(ctx context.Context, id int64) (Waste, error)
	List(ctx context.Context, filters ListFilters) ([]Waste, error)
	Update(ctx context.Context, w Waste) error
	Delete(ctx context.Context, id, farmerID int64) error
	// Buy inserts the sale record and marks the lot sold in one transaction;
	// a lot already sold yields ErrAlreadySold.
	Buy(ctx context.Context, sale Sale) (Sale, error)
	SalesByBuyer(ctx context.Context, buyerID int64) ([]Sale, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const wasteColumns = `w.id, w.farmer_id, w.waste_type, w.quantity_kg, w.price,
	w.suggested_use, w.reused_as, w.location_latitude, w.location_longitude,
	w.for_sale, w.is_sold, w.created_at, u.full_name`

const wasteFrom = ` FROM wastes w JOIN users u ON u.id = w.farmer_id`

// Create inserts a waste lot.
func (r *PGRepository) Create(ctx context.Context, w Waste) (Waste, error) {
	const query = `INSERT INTO wastes (farmer_id, waste_type, quantity_kg, price,
		suggested_use, reused_as, location_latitude, location_longitude,
		for_sale, is_sold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		w.FarmerID, w.WasteType, w.QuantityKg, w.Price,
		w.SuggestedUse, w.ReusedAs, w.Latitude, w.Longitude, w.ForSale,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return Waste{}, err
	}
	return w, nil
}

// Get returns one waste lot.
func (r *PGRepository) Get(ctx context.Context, id int64) (Waste, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+wasteColumns+wasteFrom+` WHERE w.id = $1`, id)
	w, err := scanWaste(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Waste{}, shared.ErrNotFound
		}
		return Waste{}, err
	}
	return w, nil
}

// List returns waste lots matching the filters, newest first.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Waste, error) {
	query := `SELECT ` + wasteColumns + wasteFrom + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.FarmerID != nil {
		argCount++
		query += ` AND w.farmer_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.FarmerID)
	}
	if filters.ExcludeFarmerID != nil {
		argCount++
		query += ` AND w.farmer_id <> $` + strconv.Itoa(argCount)
		args = append(args, *filters.ExcludeFarmerID)
	}
	if filters.ForSale != nil {
		argCount++
		query += ` AND w.for_sale = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ForSale)
	}
	if filters.Unsold {
		query += ` AND w.is_sold = false`
	}
	query += ` ORDER BY w.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wastes []Waste
	for rows.Next() {
		w, err := scanWaste(rows)
		if err != nil {
			return nil, err
		}
		wastes = append(wastes, w)
	}
	return wastes, rows.Err()
}

// Update rewrites the farmer's own lot.
func (r *PGRepository) Update(ctx context.Context, w Waste) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wastes SET waste_type = $1, quantity_kg = $2, price = $3,
		suggested_use = $4, reused_as = $5, location_latitude = $6,
		location_longitude = $7, for_sale = $8
		WHERE id = $9 AND farmer_id = $10`,
		w.WasteType, w.QuantityKg, w.Price, w.SuggestedUse, w.ReusedAs,
		w.Latitude, w.Longitude, w.ForSale, w.ID, w.FarmerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the farmer's own lot.
func (r *PGRepository) Delete(ctx context.Context, id, farmerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wastes WHERE id = $1 AND farmer_id = $2`, id, farmerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Buy marks the lot sold and records the sale atomically. The conditional
// UPDATE lets only one buyer win a contested lot.
func (r *PGRepository) Buy(ctx context.Context, sale Sale) (Sale, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE wastes SET is_sold = true WHERE id = $1 AND is_sold = false`,
			sale.WasteID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadySold
		}
		return tx.QueryRow(ctx,
			`INSERT INTO waste_sales (waste_id, buyer_id, quantity_purchased, total_price, payment_status, purchase_date)
			VALUES ($1, $2, $3, $4, $5, now())
			RETURNING id, purchase_date`,
			sale.WasteID, sale.BuyerID, sale.QuantityPurchased, sale.TotalPrice, sale.PaymentStatus,
		).Scan(&sale.ID, &sale.PurchaseDate)
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// SalesByBuyer returns the buyer's waste purchases, newest first.
func (r *PGRepository) SalesByBuyer(ctx context.Context, buyerID int64) ([]Sale, error) {
	const query = `SELECT s.id, s.waste_id, s.buyer_id, s.quantity_purchased,
		s.total_price, s.payment_status, s.purchase_date, w.waste_type
		FROM waste_sales s
		JOIN wastes w ON w.id = s.waste_id
		WHERE s.buyer_id = $1
		ORDER BY s.purchase_date DESC`
	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var s Sale
		err := rows.Scan(
			&s.ID, &s.WasteID, &s.BuyerID, &s.QuantityPurchased,
			&s.TotalPrice, &s.PaymentStatus, &s.PurchaseDate, &s.WasteType,
		)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func scanWaste(row pgx.Row) (Waste, error) {
	var w Waste
	err := row.Scan(
		&w.ID, &w.FarmerID, &w.WasteType, &w.QuantityKg, &w.Price,
		&w.SuggestedUse, &w.ReusedAs, &w.Latitude, &w.Longitude,
		&w.ForSale, &w.IsSold, &w.CreatedAt, &w.FarmerName,
	)
	return w, err
}

var _ Repository = (*PGRepository)(nil)
