package trucks

import (
	"context"
	"fmt"
	"time"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// Service wraps truck rental rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TruckParams collects the add/edit-truck form.
type TruckParams struct {
	DriverName          string
	RouteFrom           string
	RouteTo             string
	AvailableCapacityKg float64
	CostPerKm           float64
	Availability        string
}

func (p TruckParams) validate() error {
	switch {
	case p.DriverName == "":
		return fmt.Errorf("%w: driver name is required", httpx.ErrValidation)
	case p.RouteFrom == "" || p.RouteTo == "":
		return fmt.Errorf("%w: route endpoints are required", httpx.ErrValidation)
	case p.AvailableCapacityKg <= 0:
		return fmt.Errorf("%w: capacity must be positive", httpx.ErrValidation)
	case p.CostPerKm <= 0:
		return fmt.Errorf("%w: cost per km must be positive", httpx.ErrValidation)
	}
	switch p.Availability {
	case "", StatusAvailable, StatusOnTrip, StatusUnavailable:
	default:
		return fmt.Errorf("%w: unknown availability", httpx.ErrValidation)
	}
	return nil
}

// Add lists a truck under the calling owner.
func (s *Service) Add(ctx context.Context, ownerID int64, params TruckParams) (Truck, error) {
	if err := params.validate(); err != nil {
		return Truck{}, err
	}
	return s.repo.Create(ctx, Truck{
		OwnerID:             ownerID,
		DriverName:          params.DriverName,
		RouteFrom:           params.RouteFrom,
		RouteTo:             params.RouteTo,
		AvailableCapacityKg: params.AvailableCapacityKg,
		CostPerKm:           params.CostPerKm,
		Availability:        StatusAvailable,
	})
}

// List returns all trucks.
func (s *Service) List(ctx context.Context) ([]Truck, error) {
	return s.repo.List(ctx)
}

// Update rewrites the owner's truck, including manual availability changes.
func (s *Service) Update(ctx context.Context, id, ownerID int64, params TruckParams) (Truck, error) {
	if err := params.validate(); err != nil {
		return Truck{}, err
	}
	availability := params.Availability
	if availability == "" {
		availability = StatusAvailable
	}
	err := s.repo.Update(ctx, Truck{
		ID:                  id,
		OwnerID:             ownerID,
		DriverName:          params.DriverName,
		RouteFrom:           params.RouteFrom,
		RouteTo:             params.RouteTo,
		AvailableCapacityKg: params.AvailableCapacityKg,
		CostPerKm:           params.CostPerKm,
		Availability:        availability,
	})
	if err != nil {
		return Truck{}, err
	}
	return s.repo.Get(ctx, id)
}

// Remove deletes the owner's truck.
func (s *Service) Remove(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// BookParams collects the trip reservation form.
type BookParams struct {
	StartDate   string
	EndDate     string
	EstimatedKm float64
}

// Book reserves the truck for a trip. The total cost is the estimated
// distance at the truck's per-kilometre rate; owners cannot book their own
// trucks.
func (s *Service) Book(ctx context.Context, truckID, renterID int64, params BookParams) (Booking, error) {
	if params.EstimatedKm <= 0 {
		return Booking{}, fmt.Errorf("%w: estimated distance must be positive", httpx.ErrValidation)
	}
	start, err := time.Parse("2006-01-02", params.StartDate)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: invalid start date", httpx.ErrValidation)
	}
	end, err := time.Parse("2006-01-02", params.EndDate)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: invalid end date", httpx.ErrValidation)
	}
	if end.Before(start) {
		return Booking{}, fmt.Errorf("%w: end date must not precede start date", httpx.ErrValidation)
	}

	truck, err := s.repo.Get(ctx, truckID)
	if err != nil {
		return Booking{}, err
	}
	if truck.OwnerID == renterID {
		return Booking{}, httpx.ErrForbidden
	}

	return s.repo.Book(ctx, Booking{
		TruckID:       truckID,
		RenterID:      renterID,
		StartDate:     start,
		EndDate:       end,
		EstimatedKm:   params.EstimatedKm,
		TotalCost:     params.EstimatedKm * truck.CostPerKm,
		PaymentStatus: PaymentPending,
	})
}

// Cancel voids the renter's booking and frees the truck.
func (s *Service) Cancel(ctx context.Context, bookingID, renterID int64) error {
	return s.repo.Cancel(ctx, bookingID, renterID)
}

// MyBookings returns the renter's active bookings.
func (s *Service) MyBookings(ctx context.Context, renterID int64) ([]Booking, error) {
	return s.repo.ActiveBookings(ctx, renterID)
}
