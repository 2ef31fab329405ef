package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agriverse/agriverse/internal/platform/httpx"
	"github.com/agriverse/agriverse/internal/shared"
)

type stubRepo struct {
	storageItems map[int64]StorageItem
	orders       []SalesOrder
}

func newStubRepo() *stubRepo {
	return &stubRepo{storageItems: map[int64]StorageItem{}}
}

func (s *stubRepo) ListItems(_ context.Context, _ ItemFilters) ([]Item, error) { return nil, nil }

func (s *stubRepo) CreateStorageItem(_ context.Context, item StorageItem) (StorageItem, error) {
	item.ID = int64(len(s.storageItems) + 1)
	s.storageItems[item.ID] = item
	return item, nil
}

func (s *stubRepo) GetStorageItem(_ context.Context, id int64) (StorageItem, error) {
	item, ok := s.storageItems[id]
	if !ok {
		return StorageItem{}, shared.ErrNotFound
	}
	return item, nil
}

func (s *stubRepo) ListStorageItems(_ context.Context, _ StorageItemFilters) ([]StorageItem, error) {
	return nil, nil
}

func (s *stubRepo) DeleteStorageItem(_ context.Context, id, farmerID int64) error {
	item, ok := s.storageItems[id]
	if !ok || item.FarmerID != farmerID {
		return shared.ErrNotFound
	}
	delete(s.storageItems, id)
	return nil
}

func (s *stubRepo) CreateOrder(_ context.Context, order SalesOrder) (SalesOrder, error) {
	order.ID = int64(len(s.orders) + 1)
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubRepo) ListOrders(_ context.Context, _ int64) ([]SalesOrder, error) { return nil, nil }

func TestAddStorageItemValidates(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.AddStorageItem(context.Background(), 1, StoreItemParams{
		ProductName: "Rice", QuantityKg: 0, PricePerKg: 50, City: "Lahore",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	item, err := svc.AddStorageItem(context.Background(), 1, StoreItemParams{
		ProductName: "Rice", QuantityKg: 100, PricePerKg: 50, City: "Lahore",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.FarmerID)
}

func TestPlaceOrderComputesTotalServerSide(t *testing.T) {
	repo := newStubRepo()
	repo.storageItems[9] = StorageItem{ID: 9, FarmerID: 2, QuantityKg: 120, PricePerKg: 55}
	svc := NewService(repo)

	order, err := svc.PlaceOrder(context.Background(), 9, 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), order.BuyerID)
	assert.Equal(t, "pending", order.PaymentStatus)
	assert.InDelta(t, 6600.0, order.TotalPrice, 0.001)
}

func TestPlaceOrderRejectsOwnItem(t *testing.T) {
	repo := newStubRepo()
	repo.storageItems[9] = StorageItem{ID: 9, FarmerID: 7, QuantityKg: 120, PricePerKg: 55}
	svc := NewService(repo)

	_, err := svc.PlaceOrder(context.Background(), 9, 7)
	assert.ErrorIs(t, err, httpx.ErrForbidden)
	assert.Empty(t, repo.orders)
}

func TestRemoveStorageItemChecksOwnership(t *testing.T) {
	repo := newStubRepo()
	repo.storageItems[9] = StorageItem{ID: 9, FarmerID: 2}
	svc := NewService(repo)

	err := svc.RemoveStorageItem(context.Background(), 9, 7)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.RemoveStorageItem(context.Background(), 9, 2)
	require.NoError(t, err)
}
