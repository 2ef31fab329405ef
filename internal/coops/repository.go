package coops

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/platform/db"
	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

// Repository defines persistence for cooperatives and their memberships.
type Repository interface {
	// Create inserts the cooperative and enrolls the creator as leader in one
	// transaction.
	Create(ctx context.Context, coop Cooperative) (Cooperative, error)
	List(ctx context.Context) ([]Cooperative, error)
	Join(ctx context.Context, coopID, farmerID int64) (Membership, error)
	Leave(ctx context.Context, coopID, farmerID int64) error
	Memberships(ctx context.Context, farmerID int64) ([]Membership, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts the cooperative and the creator's leader membership
// atomically, so a cooperative can never exist without its leader.
func (r *PGRepository) Create(ctx context.Context, coop Cooperative) (Cooperative, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO cooperatives (name, region, purpose, created_by, created_at)
			VALUES ($1, $2, $3, $4, now())
			RETURNING id, created_at`,
			coop.Name, coop.Region, coop.Purpose, coop.CreatedBy,
		).Scan(&coop.ID, &coop.CreatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO cooperative_members (coop_id, farmer_id, role, joined_at)
			VALUES ($1, $2, $3, now())`,
			coop.ID, coop.CreatedBy, MemberRoleLeader,
		)
		return err
	})
	if err != nil {
		return Cooperative{}, mapConstraintErr(err)
	}
	coop.MemberCount = 1
	return coop, nil
}

// List returns all cooperatives with member counts, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Cooperative, error) {
	const query = `SELECT c.id, c.name, c.region, c.purpose, c.created_by, c.created_at,
		count(m.farmer_id)
		FROM cooperatives c
		LEFT JOIN cooperative_members m ON m.coop_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coops []Cooperative
	for rows.Next() {
		var coop Cooperative
		err := rows.Scan(
			&coop.ID, &coop.Name, &coop.Region, &coop.Purpose,
			&coop.CreatedBy, &coop.CreatedAt, &coop.MemberCount,
		)
		if err != nil {
			return nil, err
		}
		coops = append(coops, coop)
	}
	return coops, rows.Err()
}

// Join enrolls the farmer as a member. A repeat join trips the primary key
// and surfaces as a duplicate.
func (r *PGRepository) Join(ctx context.Context, coopID, farmerID int64) (Membership, error) {
	m := Membership{CoopID: coopID, FarmerID: farmerID, Role: MemberRoleMember}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cooperative_members (coop_id, farmer_id, role, joined_at)
		VALUES ($1, $2, $3, now())
		RETURNING joined_at`,
		coopID, farmerID, MemberRoleMember,
	).Scan(&m.JoinedAt)
	if err != nil {
		return Membership{}, mapConstraintErr(err)
	}
	return m, nil
}

// Leave removes the farmer's membership.
func (r *PGRepository) Leave(ctx context.Context, coopID, farmerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cooperative_members WHERE coop_id = $1 AND farmer_id = $2`,
		coopID, farmerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Memberships returns the farmer's memberships with cooperative names.
func (r *PGRepository) Memberships(ctx context.Context, farmerID int64) ([]Membership, error) {
	const query = `SELECT m.coop_id, m.farmer_id, m.role, m.joined_at, c.name
		FROM cooperative_members m
		JOIN cooperatives c ON c.id = m.coop_id
		WHERE m.farmer_id = $1
		ORDER BY m.joined_at DESC`
	rows, err := r.pool.Query(ctx, query, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.CoopID, &m.FarmerID, &m.Role, &m.JoinedAt, &m.CoopName); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return httpx.ErrDuplicate
		case "23503":
			return shared.ErrNotFound
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
