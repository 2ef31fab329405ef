package tools

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
	tools    map[int64]Tool
	bookings []Booking
	bookErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{tools: map[int64]Tool{}}
}

func (s *stubRepo) Create(_ context.Context, tool Tool) (Tool, error) {
	tool.ID = int64(len(s.tools) + 1)
	s.tools[tool.ID] = tool
	return tool, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (Tool, error) {
	tool, ok := s.tools[id]
	if !ok {
		return Tool{}, shared.ErrNotFound
	}
	return tool, nil
}

func (s *stubRepo) List(_ context.Context) ([]Tool, error) { return nil, nil }

func (s *stubRepo) Delete(_ context.Context, id, ownerID int64) error {
	tool, ok := s.tools[id]
	if !ok || tool.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(s.tools, id)
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

func TestAddValidates(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Add(context.Background(), 1, AddParams{Name: "", RentPricePerDay: 100})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	lat := 31.5
	_, err = svc.Add(context.Background(), 1, AddParams{Name: "Tractor", RentPricePerDay: 100, Latitude: &lat})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	tool, err := svc.Add(context.Background(), 1, AddParams{Name: "Tractor", RentPricePerDay: 100})
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, tool.AvailabilityStatus)
}

func TestBookIsOneDayAtListedRate(t *testing.T) {
	repo := newStubRepo()
	repo.tools[4] = Tool{ID: 4, OwnerID: 2, RentPricePerDay: 350, AvailabilityStatus: StatusAvailable}
	svc := NewService(repo)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	booking, err := svc.Book(context.Background(), 4, 9)
	require.NoError(t, err)

	assert.Equal(t, now, booking.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 1), booking.EndDate)
	assert.InDelta(t, 350.0, booking.TotalCost, 0.001)
	assert.Equal(t, PaymentPending, booking.PaymentStatus)
}

func TestBookRejectsOwnTool(t *testing.T) {
	repo := newStubRepo()
	repo.tools[4] = Tool{ID: 4, OwnerID: 9, RentPricePerDay: 350}
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), 4, 9)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Empty(t, repo.bookings)
}

func TestBookPropagatesUnavailable(t *testing.T) {
	repo := newStubRepo()
	repo.tools[4] = Tool{ID: 4, OwnerID: 2, RentPricePerDay: 350}
	repo.bookErr = ErrUnavailable
	svc := NewService(repo)

	_, err := svc.Book(context.Background(), 4, 9)
	assert.ErrorIs(t, err, ErrUnavailable)
}
