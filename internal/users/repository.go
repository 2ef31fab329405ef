package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriverse/agriverse/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns a user by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	const query = `SELECT id, full_name, email, phone, role, language_preference, created_at, updated_at
		FROM users WHERE id = $1`
	var u User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.LanguagePreference, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile writes the editable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error {
	const query = `UPDATE users
		SET full_name = $1, phone = $2, language_preference = $3, updated_at = now()
		WHERE id = $4`
	tag, err := r.pool.Exec(ctx, query, update.FullName, update.Phone, update.LanguagePreference, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
