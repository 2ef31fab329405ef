package godowns

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

// Service wraps godown business rules.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// List returns godowns matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Godown, error) {
	return s.repo.List(ctx, filters)
}

// ListPage returns one page of godowns plus paging metadata.
func (s *Service) ListPage(ctx context.Context, filters ListFilters) ([]Godown, shared.Pagination, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 20
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	godowns, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return godowns, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Get returns one godown.
func (s *Service) Get(ctx context.Context, id int64) (Godown, error) {
	if id <= 0 {
		return Godown{}, fmt.Errorf("%w: invalid godown ID", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create registers a godown under the calling admin.
func (s *Service) Create(ctx context.Context, g Godown) (Godown, error) {
	if err := s.validate(g); err != nil {
		return Godown{}, err
	}
	if g.AvailableCapacityKg == 0 {
		g.AvailableCapacityKg = g.TotalCapacityKg
	}
	return s.repo.Create(ctx, g)
}

// Update rewrites a godown owned by adminID.
func (s *Service) Update(ctx context.Context, id, adminID int64, g Godown) error {
	if err := s.validate(g); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.AdminID != adminID {
		return httpx.ErrForbidden
	}
	return s.repo.Update(ctx, id, g)
}

// Delete removes a godown owned by adminID.
func (s *Service) Delete(ctx context.Context, id, adminID int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.AdminID != adminID {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(g Godown) error {
	switch {
	case g.Name == "":
		return fmt.Errorf("%w: name is required", httpx.ErrValidation)
	case g.City == "":
		return fmt.Errorf("%w: city is required", httpx.ErrValidation)
	case g.TotalCapacityKg <= 0:
		return fmt.Errorf("%w: total capacity must be positive", httpx.ErrValidation)
	case g.StorageFeePerDay < 0:
		return fmt.Errorf("%w: storage fee must not be negative", httpx.ErrValidation)
	case (g.Latitude == nil) != (g.Longitude == nil):
		return fmt.Errorf("%w: latitude and longitude must be set together", httpx.ErrValidation)
	}
	return nil
}
