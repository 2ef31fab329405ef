package godowns

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/shared"
)

const godownColumns = `id, admin_id, name, city, address, phone, total_capacity_kg,
	available_capacity_kg, storage_fee_per_day, temperature_control, humidity_control,
	location_latitude, location_longitude, created_at`

// ListFilters narrows godown listings. PerPage of zero disables paging.
type ListFilters struct {
	AdminID *int64
	City    string
	Search  string
	Page    int
	PerPage int
}

func (f ListFilters) where() (string, []interface{}) {
	clause := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if f.AdminID != nil {
		argCount++
		clause += ` AND admin_id = $` + strconv.Itoa(argCount)
		args = append(args, *f.AdminID)
	}
	if f.City != "" {
		argCount++
		clause += ` AND city ILIKE $` + strconv.Itoa(argCount)
		args = append(args, f.City)
	}
	if f.Search != "" {
		argCount++
		clause += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR city ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+f.Search+"%")
	}
	return clause, args
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns godowns matching the filters.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Godown, error) {
	clause, args := filters.where()
	query := `SELECT ` + godownColumns + ` FROM godowns` + clause + ` ORDER BY name`
	if filters.PerPage > 0 {
		page := filters.Page
		if page <= 0 {
			page = 1
		}
		query += ` LIMIT ` + strconv.Itoa(filters.PerPage) + ` OFFSET ` + strconv.Itoa((page-1)*filters.PerPage)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var godowns []Godown
	for rows.Next() {
		g, err := scanGodown(rows)
		if err != nil {
			return nil, err
		}
		godowns = append(godowns, g)
	}
	return godowns, rows.Err()
}

// Count returns how many godowns match the filters, ignoring paging.
func (r *Repository) Count(ctx context.Context, filters ListFilters) (int, error) {
	clause, args := filters.where()
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM godowns`+clause, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Get returns one godown.
func (r *Repository) Get(ctx context.Context, id int64) (Godown, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+godownColumns+` FROM godowns WHERE id = $1`, id)
	g, err := scanGodown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Godown{}, shared.ErrNotFound
		}
		return Godown{}, err
	}
	return g, nil
}

// Create inserts a godown and returns it with its assigned ID.
func (r *Repository) Create(ctx context.Context, g Godown) (Godown, error) {
	const query = `INSERT INTO godowns (admin_id, name, city, address, phone, total_capacity_kg,
		available_capacity_kg, storage_fee_per_day, temperature_control, humidity_control,
		location_latitude, location_longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		g.AdminID, g.Name, g.City, g.Address, g.Phone, g.TotalCapacityKg,
		g.AvailableCapacityKg, g.StorageFeePerDay, g.TemperatureControl, g.HumidityControl,
		g.Latitude, g.Longitude,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return Godown{}, err
	}
	return g, nil
}

// Update rewrites the editable fields of a godown.
func (r *Repository) Update(ctx context.Context, id int64, g Godown) error {
	const query = `UPDATE godowns SET name = $1, city = $2, address = $3, phone = $4,
		total_capacity_kg = $5, available_capacity_kg = $6, storage_fee_per_day = $7,
		temperature_control = $8, humidity_control = $9, location_latitude = $10, location_longitude = $11
		WHERE id = $12`
	tag, err := r.pool.Exec(ctx, query,
		g.Name, g.City, g.Address, g.Phone, g.TotalCapacityKg, g.AvailableCapacityKg,
		g.StorageFeePerDay, g.TemperatureControl, g.HumidityControl, g.Latitude, g.Longitude, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a godown.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM godowns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanGodown(row pgx.Row) (Godown, error) {
	var g Godown
	err := row.Scan(
		&g.ID, &g.AdminID, &g.Name, &g.City, &g.Address, &g.Phone, &g.TotalCapacityKg,
		&g.AvailableCapacityKg, &g.StorageFeePerDay, &g.TemperatureControl, &g.HumidityControl,
		&g.Latitude, &g.Longitude, &g.CreatedAt,
	)
	return g, err
}
