package waste

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

type stubRepo struct {
	wastes map[int64]Waste
	sales  []Sale
	buyErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{wastes: map[int64]Waste{}}
}

func (s *stubRepo) Create(_ context.Context, w Waste) (Waste, error) {
	w.ID = int64(len(s.wastes) + 1)
	s.wastes[w.ID] = w
	return w, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (Waste, error) {
	w, ok := s.wastes[id]
	if !ok {
		return Waste{}, shared.ErrNotFound
	}
	return w, nil
}

func (s *stubRepo) List(_ context.Context, _ ListFilters) ([]Waste, error) { return nil, nil }

func (s *stubRepo) Update(_ context.Context, w Waste) error {
	existing, ok := s.wastes[w.ID]
	if !ok || existing.FarmerID != w.FarmerID {
		return shared.ErrNotFound
	}
	s.wastes[w.ID] = w
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id, farmerID int64) error {
	w, ok := s.wastes[id]
	if !ok || w.FarmerID != farmerID {
		return shared.ErrNotFound
	}
	delete(s.wastes, id)
	return nil
}

func (s *stubRepo) Buy(_ context.Context, sale Sale) (Sale, error) {
	if s.buyErr != nil {
		return Sale{}, s.buyErr
	}
	sale.ID = int64(len(s.sales) + 1)
	s.sales = append(s.sales, sale)
	return sale, nil
}

func (s *stubRepo) SalesByBuyer(_ context.Context, _ int64) ([]Sale, error) { return nil, nil }

func TestRecordRequiresPriceWhenSelling(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Record(context.Background(), 1, RecordParams{
		WasteType: "dung", QuantityKg: 50, ForSale: true,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	lot, err := svc.Record(context.Background(), 1, RecordParams{
		WasteType: "dung", QuantityKg: 50,
	})
	require.NoError(t, err)
	assert.False(t, lot.ForSale)
}

func TestSendToMarketChecksOwnershipAndPrice(t *testing.T) {
	repo := newStubRepo()
	repo.wastes[2] = Waste{ID: 2, FarmerID: 1, WasteType: "crop", QuantityKg: 50}
	svc := NewService(repo)

	_, err := svc.SendToMarket(context.Background(), 2, 9)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.SendToMarket(context.Background(), 2, 1)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	lot := repo.wastes[2]
	lot.Price = 800
	repo.wastes[2] = lot

	sent, err := svc.SendToMarket(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, sent.ForSale)
}

func TestBuyTakesWholeLotAtListedPrice(t *testing.T) {
	repo := newStubRepo()
	repo.wastes[2] = Waste{ID: 2, FarmerID: 1, QuantityKg: 50, Price: 800, ForSale: true}
	svc := NewService(repo)

	sale, err := svc.Buy(context.Background(), 2, 9)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, sale.QuantityPurchased, 0.001)
	assert.InDelta(t, 800.0, sale.TotalPrice, 0.001)
	assert.Equal(t, "pending", sale.PaymentStatus)
}

func TestBuyRejectsOwnLotAndUnlisted(t *testing.T) {
	repo := newStubRepo()
	repo.wastes[2] = Waste{ID: 2, FarmerID: 1, QuantityKg: 50, Price: 800, ForSale: true}
	repo.wastes[3] = Waste{ID: 3, FarmerID: 4, QuantityKg: 10, Price: 100}
	svc := NewService(repo)

	_, err := svc.Buy(context.Background(), 2, 1)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.Buy(context.Background(), 3, 1)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestBuyPropagatesAlreadySold(t *testing.T) {
	repo := newStubRepo()
	repo.wastes[2] = Waste{ID: 2, FarmerID: 1, QuantityKg: 50, Price: 800, ForSale: true}
	repo.buyErr = ErrAlreadySold
	svc := NewService(repo)

	_, err := svc.Buy(context.Background(), 2, 9)
	assert.ErrorIs(t, err, ErrAlreadySold)
}

func TestRecommendationsKnownTypes(t *testing.T) {
	assert.Len(t, Recommendations("dung"), 3)
	assert.Len(t, Recommendations("crop"), 3)
	assert.Len(t, Recommendations("spoiled"), 3)
	assert.Nil(t, Recommendations("plastic"))
}
