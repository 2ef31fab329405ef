package users

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

var allowedLanguages = map[string]bool{"urdu": true, "english": true}

// Service wraps profile management rules.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the profile for a user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// UpdateProfile validates and applies profile edits, returning the fresh record.
func (s *Service) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*User, error) {
	if update.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", httpx.ErrValidation)
	}
	if update.LanguagePreference != "" && !allowedLanguages[update.LanguagePreference] {
		return nil, fmt.Errorf("%w: unsupported language preference", httpx.ErrValidation)
	}
	if err := s.repo.UpdateProfile(ctx, id, update); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
