package trucks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

type stubRepo struct {
	trucks   map[int64]Truck
	bookings []Booking
	bookErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{trucks: map[int64]Truck{}}
}

func (s *stubRepo) Create(_ context.Context, truck Truck) (Truck, error) {
	truck.ID = int64(len(s.trucks) + 1)
	s.trucks[truck.ID] = truck
	return truck, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (Truck, error) {
	truck, ok := s.trucks[id]
	if !ok {
		return Truck{}, shared.ErrNotFound
	}
	return truck, nil
}

func (s *stubRepo) List(_ context.Context) ([]Truck, error) { return nil, nil }

func (s *stubRepo) Update(_ context.Context, truck Truck) error {
	existing, ok := s.trucks[truck.ID]
	if !ok || existing.OwnerID != truck.OwnerID {
		return shared.ErrNotFound
	}
	s.trucks[truck.ID] = truck
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id, ownerID int64) error {
	truck, ok := s.trucks[id]
	if !ok || truck.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(s.trucks, id)
	return nil
}

func (s *stubRepo) Book(_ context.Context, booking Booking) (Booking, error) {
	if s.bookErr != nil {
		return Booking{}, s.bookErr
	}
	booking.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

func (s *stubRepo) Cancel(_ context.Context, _, _ int64) error { return nil }

func (s *stubRepo) ActiveBookings(_ context.Context, _ int64) ([]Booking, error) { return nil, nil }

func (s *stubRepo) ReleaseExpired(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func validTruck() TruckParams {
	return TruckParams{
		DriverName:          "Akram",
		RouteFrom:           "Multan",
		RouteTo:             "Lahore",
		AvailableCapacityKg: 8000,
		CostPerKm:           45,
	}
}

func TestAddDefaultsToAvailable(t *testing.T) {
	svc := NewService(newStubRepo())

	truck, err := svc.Add(context.Background(), 1, validTruck())
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, truck.Availability)
}

func TestAddValidates(t *testing.T) {
	svc := NewService(newStubRepo())

	params := validTruck()
	params.RouteTo = ""
	_, err := svc.Add(context.Background(), 1, params)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	params = validTruck()
	params.CostPerKm = 0
	_, err = svc.Add(context.Background(), 1, params)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateChecksOwnership(t *testing.T) {
	repo := newStubRepo()
	repo.trucks[3] = Truck{ID: 3, OwnerID: 2}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 3, 99, validTruck())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBookComputesCostFromDistance(t *testing.T) {
	repo := newStubRepo()
	repo.trucks[3] = Truck{ID: 3, OwnerID: 2, CostPerKm: 45, Availability: StatusAvailable}
	svc := NewService(repo)

	booking, err := svc.Book(context.Background(), 3, 9, BookParams{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-02",
		EstimatedKm: 340,
	})
	require.NoError(t, err)

	assert.InDelta(t, 15300.0, booking.TotalCost, 0.001)
	assert.Equal(t, PaymentPending, booking.PaymentStatus)
}

func TestBookRejectsOwnTruck(t *testing.T) {
	repo := newStubRepo()
	repo.trucks[3] = Truck{ID: 3, OwnerID: 9, CostPerKm: 45}
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), 3, 9, BookParams{
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-02",
		EstimatedKm: 340,
	})
	assert.ErrorIs(t, err, httpx.ErrForbidden)
}

func TestBookValidatesDates(t *testing.T) {
	repo := newStubRepo()
	repo.trucks[3] = Truck{ID: 3, OwnerID: 2, CostPerKm: 45}
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), 3, 9, BookParams{
		StartDate:   "2026-09-05",
		EndDate:     "2026-09-01",
		EstimatedKm: 340,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
