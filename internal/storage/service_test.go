package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/godowns"
	"github.com/agriverse/agriverse/internal/platform/httpx"
)

type stubRepo struct {
	created  []Request
	requests map[int64]Request

	approved []int64
	rejected []int64
	bought   map[int64]int64

	approveErr error
	buyErr     error
}

func newStubRepo() *stubRepo {
	return &stubRepo{requests: map[int64]Request{}, bought: map[int64]int64{}}
}

func (s *stubRepo) Create(_ context.Context, req Request) (Request, error) {
	req.ID = int64(len(s.created) + 1)
	s.created = append(s.created, req)
	s.requests[req.ID] = req
	return req, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (Request, error) {
	req, ok := s.requests[id]
	if !ok {
		return Request{}, errors.New("not found")
	}
	return req, nil
}

func (s *stubRepo) List(_ context.Context, _ ListFilters) ([]Request, error) {
	return nil, nil
}

func (s *stubRepo) Approve(_ context.Context, id int64) error {
	if s.approveErr != nil {
		return s.approveErr
	}
	s.approved = append(s.approved, id)
	return nil
}

func (s *stubRepo) Reject(_ context.Context, id int64) error {
	s.rejected = append(s.rejected, id)
	return nil
}

func (s *stubRepo) Buy(_ context.Context, id, buyerID int64) error {
	if s.buyErr != nil {
		return s.buyErr
	}
	s.bought[id] = buyerID
	return nil
}

type stubGodowns struct {
	godowns map[int64]godowns.Godown
}

func (s *stubGodowns) Get(_ context.Context, id int64) (godowns.Godown, error) {
	g, ok := s.godowns[id]
	if !ok {
		return godowns.Godown{}, errors.New("not found")
	}
	return g, nil
}

func newService(repo *stubRepo, dirs map[int64]godowns.Godown) *Service {
	return NewService(repo, &stubGodowns{godowns: dirs})
}

func validParams() CreateParams {
	return CreateParams{
		GodownID:    7,
		ProductName: "Wheat",
		QuantityKg:  500,
		PricePerKg:  80,
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-11",
	}
}

func TestSubmitDerivesFeeFromGodownRate(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo, map[int64]godowns.Godown{
		7: {ID: 7, AdminID: 3, StorageFeePerDay: 25},
	})

	req, err := svc.Submit(context.Background(), 42, validParams())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, int64(42), req.FarmerID)
	// 10 days at 25/day.
	assert.InDelta(t, 250.0, req.TotalStorageFee, 0.001)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo, map[int64]godowns.Godown{7: {ID: 7}})

	cases := map[string]func(*CreateParams){
		"missing product":     func(p *CreateParams) { p.ProductName = "" },
		"zero quantity":       func(p *CreateParams) { p.QuantityKg = 0 },
		"negative price":      func(p *CreateParams) { p.PricePerKg = -1 },
		"end before start":    func(p *CreateParams) { p.EndDate = "2026-08-01" },
		"end equals start":    func(p *CreateParams) { p.EndDate = p.StartDate },
		"malformed date":      func(p *CreateParams) { p.StartDate = "yesterday" },
		"unknown godown":      func(p *CreateParams) { p.GodownID = 99 },
		"no godown specified": func(p *CreateParams) { p.GodownID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			params := validParams()
			mutate(&params)
			_, err := svc.Submit(context.Background(), 42, params)
			assert.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
	assert.Empty(t, repo.created)
}

func TestApproveChecksGodownOwnership(t *testing.T) {
	repo := newStubRepo()
	repo.requests[5] = Request{ID: 5, GodownID: 7, Status: StatusPending}
	svc := newService(repo, map[int64]godowns.Godown{
		7: {ID: 7, AdminID: 3},
	})

	_, err := svc.Approve(context.Background(), 5, 99)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Empty(t, repo.approved)

	_, err = svc.Approve(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.approved)
}

func TestRejectChecksGodownOwnership(t *testing.T) {
	repo := newStubRepo()
	repo.requests[5] = Request{ID: 5, GodownID: 7, Status: StatusPending}
	svc := newService(repo, map[int64]godowns.Godown{
		7: {ID: 7, AdminID: 3},
	})

	_, err := svc.Reject(context.Background(), 5, 99)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.Reject(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.rejected)
}

func TestApprovePropagatesStatusConflict(t *testing.T) {
	repo := newStubRepo()
	repo.requests[5] = Request{ID: 5, GodownID: 7, Status: StatusApproved}
	repo.approveErr = ErrInvalidStatus
	svc := newService(repo, map[int64]godowns.Godown{
		7: {ID: 7, AdminID: 3},
	})

	_, err := svc.Approve(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestBuyRecordsBuyer(t *testing.T) {
	repo := newStubRepo()
	repo.requests[5] = Request{ID: 5, GodownID: 7, Status: StatusApproved}
	svc := newService(repo, nil)

	_, err := svc.Buy(context.Background(), 5, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), repo.bought[5])
}

func TestBuyPropagatesStatusConflict(t *testing.T) {
	repo := newStubRepo()
	repo.buyErr = ErrInvalidStatus
	svc := newService(repo, nil)

	_, err := svc.Buy(context.Background(), 5, 11)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStorageDaysRoundsUp(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, StorageDays(start, start.AddDate(0, 0, 10)))
	assert.Equal(t, 11, StorageDays(start, start.AddDate(0, 0, 10).Add(6*time.Hour)))
	assert.Equal(t, 1, StorageDays(start, start.Add(1*time.Hour)))
}
