package coops

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// DefaultPurpose is used when the creator leaves the purpose blank.
const DefaultPurpose = "مشترکہ کسانی"

// Service wraps cooperative business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams collects the new-cooperative form.
type CreateParams struct {
	Name    string
	Region  string
	Purpose string
}

// Create registers a cooperative with the caller as its leader.
func (s *Service) Create(ctx context.Context, creatorID int64, params CreateParams) (Cooperative, error) {
	switch {
	case params.Name == "":
		return Cooperative{}, fmt.Errorf("%w: name is required", httpx.ErrValidation)
	case params.Region == "":
		return Cooperative{}, fmt.Errorf("%w: region is required", httpx.ErrValidation)
	}
	if params.Purpose == "" {
		params.Purpose = DefaultPurpose
	}
	return s.repo.Create(ctx, Cooperative{
		Name:      params.Name,
		Region:    params.Region,
		Purpose:   params.Purpose,
		CreatedBy: creatorID,
	})
}

// List returns all cooperatives.
func (s *Service) List(ctx context.Context) ([]Cooperative, error) {
	return s.repo.List(ctx)
}

// Join enrolls the farmer in a cooperative.
func (s *Service) Join(ctx context.Context, coopID, farmerID int64) (Membership, error) {
	if coopID <= 0 {
		return Membership{}, fmt.Errorf("%w: invalid cooperative ID", httpx.ErrValidation)
	}
	return s.repo.Join(ctx, coopID, farmerID)
}

// Leave removes the farmer from a cooperative.
func (s *Service) Leave(ctx context.Context, coopID, farmerID int64) error {
	return s.repo.Leave(ctx, coopID, farmerID)
}

// Memberships returns the farmer's memberships.
func (s *Service) Memberships(ctx context.Context, farmerID int64) ([]Membership, error) {
	return s.repo.Memberships(ctx, farmerID)
}
