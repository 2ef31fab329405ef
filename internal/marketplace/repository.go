package marketplace

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/shared"
)

// ItemFilters narrows godown marketplace listings.
type ItemFilters struct {
	AdminID *int64
	Status  ItemStatus
}

// StorageItemFilters narrows peer market listings.
type StorageItemFilters struct {
	FarmerID        *int64
	ExcludeFarmerID *int64
}

// Repository defines persistence for the marketplace tables.
type Repository interface {
	ListItems(ctx context.Context, filters ItemFilters) ([]Item, error)

	CreateStorageItem(ctx context.Context, item StorageItem) (StorageItem, error)
	GetStorageItem(ctx context.Context, id int64) (StorageItem, error)
	ListStorageItems(ctx context.Context, filters StorageItemFilters) ([]StorageItem, error)
	DeleteStorageItem(ctx context.Context, id, farmerID int64) error

	CreateOrder(ctx context.Context, order SalesOrder) (SalesOrder, error)
	ListOrders(ctx context.Context, buyerID int64) ([]SalesOrder, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListItems returns godown marketplace listings, newest first.
func (r *PGRepository) ListItems(ctx context.Context, filters ItemFilters) ([]Item, error) {
	query := `SELECT m.id, m.godown_id, m.farmer_id, m.request_id, m.product_name,
		m.quantity_kg, m.price_per_kg, m.status, m.created_at,
		g.name, g.city, u.full_name
		FROM marketplace_items m
		JOIN godowns g ON g.id = m.godown_id
		JOIN users u ON u.id = m.farmer_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.AdminID != nil {
		argCount++
		query += ` AND g.admin_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.AdminID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND m.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	query += ` ORDER BY m.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.ID, &item.GodownID, &item.FarmerID, &item.RequestID, &item.ProductName,
			&item.QuantityKg, &item.PricePerKg, &item.Status, &item.CreatedAt,
			&item.GodownName, &item.GodownCity, &item.FarmerName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateStorageItem inserts a self-stored inventory row.
func (r *PGRepository) CreateStorageItem(ctx context.Context, item StorageItem) (StorageItem, error) {
	const query = `INSERT INTO storage_items (farmer_id, product_name, quantity_kg, price_per_kg, city, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		item.FarmerID, item.ProductName, item.QuantityKg, item.PricePerKg, item.City,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return StorageItem{}, err
	}
	return item, nil
}

// GetStorageItem returns one self-stored item.
func (r *PGRepository) GetStorageItem(ctx context.Context, id int64) (StorageItem, error) {
	const query = `SELECT s.id, s.farmer_id, s.product_name, s.quantity_kg, s.price_per_kg, s.city, s.created_at, u.full_name
		FROM storage_items s
		JOIN users u ON u.id = s.farmer_id
		WHERE s.id = $1`
	var item StorageItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.FarmerID, &item.ProductName, &item.QuantityKg,
		&item.PricePerKg, &item.City, &item.CreatedAt, &item.FarmerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StorageItem{}, shared.ErrNotFound
		}
		return StorageItem{}, err
	}
	return item, nil
}

// ListStorageItems returns peer market inventory, newest first.
func (r *PGRepository) ListStorageItems(ctx context.Context, filters StorageItemFilters) ([]StorageItem, error) {
	query := `SELECT s.id, s.farmer_id, s.product_name, s.quantity_kg, s.price_per_kg, s.city, s.created_at, u.full_name
		FROM storage_items s
		JOIN users u ON u.id = s.farmer_id
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.FarmerID != nil {
		argCount++
		query += ` AND s.farmer_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.FarmerID)
	}
	if filters.ExcludeFarmerID != nil {
		argCount++
		query += ` AND s.farmer_id <> $` + strconv.Itoa(argCount)
		args = append(args, *filters.ExcludeFarmerID)
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StorageItem
	for rows.Next() {
		var item StorageItem
		err := rows.Scan(
			&item.ID, &item.FarmerID, &item.ProductName, &item.QuantityKg,
			&item.PricePerKg, &item.City, &item.CreatedAt, &item.FarmerName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteStorageItem removes the farmer's own item.
func (r *PGRepository) DeleteStorageItem(ctx context.Context, id, farmerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM storage_items WHERE id = $1 AND farmer_id = $2`, id, farmerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateOrder records a purchase.
func (r *PGRepository) CreateOrder(ctx context.Context, order SalesOrder) (SalesOrder, error) {
	const query = `INSERT INTO sales_orders (buyer_id, item_id, quantity_kg, total_price, payment_status, order_date)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, order_date`
	err := r.pool.QueryRow(ctx, query,
		order.BuyerID, order.ItemID, order.QuantityKg, order.TotalPrice, order.PaymentStatus,
	).Scan(&order.ID, &order.OrderDate)
	if err != nil {
		return SalesOrder{}, err
	}
	return order, nil
}

// ListOrders returns the buyer's orders, newest first.
func (r *PGRepository) ListOrders(ctx context.Context, buyerID int64) ([]SalesOrder, error) {
	const query = `SELECT o.id, o.buyer_id, o.item_id, o.quantity_kg, o.total_price, o.payment_status, o.order_date, s.product_name
		FROM sales_orders o
		JOIN storage_items s ON s.id = o.item_id
		WHERE o.buyer_id = $1
		ORDER BY o.order_date DESC`
	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []SalesOrder
	for rows.Next() {
		var order SalesOrder
		err := rows.Scan(
			&order.ID, &order.BuyerID, &order.ItemID, &order.QuantityKg,
			&order.TotalPrice, &order.PaymentStatus, &order.OrderDate, &order.ProductName,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
