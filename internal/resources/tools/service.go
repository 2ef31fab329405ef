package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// Service wraps tool rental rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// AddParams collects the new-tool form.
type AddParams struct {
	Name            string
	Description     string
	RentPricePerDay float64
	Latitude        *float64
	Longitude       *float64
}

// Add lists a tool for rental.
func (s *Service) Add(ctx context.Context, ownerID int64, params AddParams) (Tool, error) {
	switch {
	case params.Name == "":
		return Tool{}, fmt.Errorf("%w: name is required", httpx.ErrValidation)
	case params.RentPricePerDay <= 0:
		return Tool{}, fmt.Errorf("%w: rent price must be positive", httpx.ErrValidation)
	case (params.Latitude == nil) != (params.Longitude == nil):
		return Tool{}, fmt.Errorf("%w: latitude and longitude must be set together", httpx.ErrValidation)
	}
	return s.repo.Create(ctx, Tool{
		OwnerID:            ownerID,
		Name:               params.Name,
		Description:        params.Description,
		RentPricePerDay:    params.RentPricePerDay,
		AvailabilityStatus: StatusAvailable,
		Latitude:           params.Latitude,
		Longitude:          params.Longitude,
	})
}

// List returns all tools.
func (s *Service) List(ctx context.Context) ([]Tool, error) {
	return s.repo.List(ctx)
}

// Remove deletes the owner's tool.
func (s *Service) Remove(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// Book rents the tool for one day starting now. Owners cannot book their own
// tools; the cost is one day's rent.
func (s *Service) Book(ctx context.Context, toolID, renterID int64) (Booking, error) {
	tool, err := s.repo.Get(ctx, toolID)
	if err != nil {
		return Booking{}, err
	}
	if tool.OwnerID == renterID {
		return Booking{}, httpx.ErrForbidden
	}

	start := s.now()
	return s.repo.Book(ctx, Booking{
		ToolID:        toolID,
		RenterID:      renterID,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 1),
		TotalCost:     tool.RentPricePerDay,
		PaymentStatus: PaymentPending,
	})
}

// Cancel voids the renter's booking and frees the tool.
func (s *Service) Cancel(ctx context.Context, bookingID, renterID int64) error {
	return s.repo.Cancel(ctx, bookingID, renterID)
}

// MyBookings returns the renter's active bookings.
func (s *Service) MyBookings(ctx context.Context, renterID int64) ([]Booking, error) {
	return s.repo.ActiveBookings(ctx, renterID)
}
