package storage

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/godowns"
	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// GodownDirectory is the slice of the godowns service this module needs.
type GodownDirectory interface {
	Get(ctx context.Context, id int64) (godowns.Godown, error)
}

// Service wraps the storage request lifecycle.
type Service struct {
	repo    Repository
	godowns GodownDirectory
}

// NewService constructs a Service.
func NewService(repo Repository, godowns GodownDirectory) *Service {
	return &Service{repo: repo, godowns: godowns}
}

// CreateParams collects the farmer's request form.
type CreateParams struct {
	GodownID            int64
	ProductName         string
	QuantityKg          float64
	PricePerKg          float64
	StartDate           string
	EndDate             string
	TemperatureRequired bool
	HumidityRequired    bool
}

// Submit validates the form, derives the storage fee from the godown's daily
// rate, and files the request as pending.
func (s *Service) Submit(ctx context.Context, farmerID int64, params CreateParams) (Request, error) {
	switch {
	case params.GodownID <= 0:
		return Request{}, fmt.Errorf("%w: godown is required", httpx.ErrValidation)
	case params.ProductName == "":
		return Request{}, fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	case params.QuantityKg <= 0:
		return Request{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	case params.PricePerKg <= 0:
		return Request{}, fmt.Errorf("%w: price per kg must be positive", httpx.ErrValidation)
	}

	start, end, err := parseDateRange(params.StartDate, params.EndDate)
	if err != nil {
		return Request{}, err
	}

	godown, err := s.godowns.Get(ctx, params.GodownID)
	if err != nil {
		return Request{}, fmt.Errorf("%w: unknown godown", httpx.ErrValidation)
	}

	days := StorageDays(start, end)
	req := Request{
		FarmerID:            farmerID,
		GodownID:            params.GodownID,
		ProductName:         params.ProductName,
		QuantityKg:          params.QuantityKg,
		PricePerKg:          params.PricePerKg,
		StartDate:           start,
		EndDate:             end,
		TemperatureRequired: params.TemperatureRequired,
		HumidityRequired:    params.HumidityRequired,
		TotalStorageFee:     float64(days) * godown.StorageFeePerDay,
		Status:              StatusPending,
	}
	return s.repo.Create(ctx, req)
}

// ListForFarmer returns the farmer's own requests, newest first.
func (s *Service) ListForFarmer(ctx context.Context, farmerID int64) ([]Request, error) {
	return s.repo.List(ctx, ListFilters{FarmerID: &farmerID})
}

// ListForAdmin returns requests addressed to the admin's godowns.
func (s *Service) ListForAdmin(ctx context.Context, adminID int64) ([]Request, error) {
	return s.repo.List(ctx, ListFilters{AdminID: &adminID})
}

// ListForSale returns approved, unsold produce for buyers to browse.
func (s *Service) ListForSale(ctx context.Context) ([]Request, error) {
	return s.repo.List(ctx, ListFilters{Status: StatusApproved, ForSale: true})
}

// ListPurchases returns everything the buyer has bought.
func (s *Service) ListPurchases(ctx context.Context, buyerID int64) ([]Request, error) {
	return s.repo.List(ctx, ListFilters{BuyerID: &buyerID})
}

// Approve accepts a pending request addressed to one of adminID's godowns and
// lists the produce on the marketplace. The two writes share one transaction.
func (s *Service) Approve(ctx context.Context, id, adminID int64) (Request, error) {
	if err := s.authorizeAdmin(ctx, id, adminID); err != nil {
		return Request{}, err
	}
	if err := s.repo.Approve(ctx, id); err != nil {
		return Request{}, err
	}
	return s.repo.Get(ctx, id)
}

// Reject declines a pending request addressed to one of adminID's godowns.
func (s *Service) Reject(ctx context.Context, id, adminID int64) (Request, error) {
	if err := s.authorizeAdmin(ctx, id, adminID); err != nil {
		return Request{}, err
	}
	if err := s.repo.Reject(ctx, id); err != nil {
		return Request{}, err
	}
	return s.repo.Get(ctx, id)
}

// Buy sells the approved produce to buyerID and closes the listing.
func (s *Service) Buy(ctx context.Context, id, buyerID int64) (Request, error) {
	if err := s.repo.Buy(ctx, id, buyerID); err != nil {
		return Request{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) authorizeAdmin(ctx context.Context, requestID, adminID int64) error {
	req, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return err
	}
	godown, err := s.godowns.Get(ctx, req.GodownID)
	if err != nil {
		return err
	}
	if godown.AdminID != adminID {
		return httpx.ErrForbidden
	}
	return nil
}
