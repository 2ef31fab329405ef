package marketplace

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// Service wraps marketplace business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForAdmin returns godown marketplace listings across adminID's godowns.
func (s *Service) ListForAdmin(ctx context.Context, adminID int64) ([]Item, error) {
	return s.repo.ListItems(ctx, ItemFilters{AdminID: &adminID})
}

// ListAvailable returns open godown marketplace listings.
func (s *Service) ListAvailable(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx, ItemFilters{Status: ItemAvailable})
}

// StoreItemParams collects the farmer's self-store form.
type StoreItemParams struct {
	ProductName string
	QuantityKg  float64
	PricePerKg  float64
	City        string
}

// AddStorageItem lists self-stored inventory on the peer market.
func (s *Service) AddStorageItem(ctx context.Context, farmerID int64, params StoreItemParams) (StorageItem, error) {
	switch {
	case params.ProductName == "":
		return StorageItem{}, fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	case params.QuantityKg <= 0:
		return StorageItem{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	case params.PricePerKg <= 0:
		return StorageItem{}, fmt.Errorf("%w: price per kg must be positive", httpx.ErrValidation)
	case params.City == "":
		return StorageItem{}, fmt.Errorf("%w: city is required", httpx.ErrValidation)
	}
	return s.repo.CreateStorageItem(ctx, StorageItem{
		FarmerID:    farmerID,
		ProductName: params.ProductName,
		QuantityKg:  params.QuantityKg,
		PricePerKg:  params.PricePerKg,
		City:        params.City,
	})
}

// MyStorageItems returns the farmer's own inventory.
func (s *Service) MyStorageItems(ctx context.Context, farmerID int64) ([]StorageItem, error) {
	return s.repo.ListStorageItems(ctx, StorageItemFilters{FarmerID: &farmerID})
}

// PeerMarket returns everyone else's inventory.
func (s *Service) PeerMarket(ctx context.Context, viewerID int64) ([]StorageItem, error) {
	return s.repo.ListStorageItems(ctx, StorageItemFilters{ExcludeFarmerID: &viewerID})
}

// RemoveStorageItem deletes the farmer's own item.
func (s *Service) RemoveStorageItem(ctx context.Context, id, farmerID int64) error {
	return s.repo.DeleteStorageItem(ctx, id, farmerID)
}

// PlaceOrder buys a peer-market item outright. The order total is the item's
// full quantity at its listed unit price; a buyer cannot order their own item.
func (s *Service) PlaceOrder(ctx context.Context, itemID, buyerID int64) (SalesOrder, error) {
	item, err := s.repo.GetStorageItem(ctx, itemID)
	if err != nil {
		return SalesOrder{}, err
	}
	if item.FarmerID == buyerID {
		return SalesOrder{}, httpx.ErrForbidden
	}
	return s.repo.CreateOrder(ctx, SalesOrder{
		BuyerID:       buyerID,
		ItemID:        itemID,
		QuantityKg:    item.QuantityKg,
		TotalPrice:    item.QuantityKg * item.PricePerKg,
		PaymentStatus: "pending",
	})
}

// MyOrders returns the buyer's order history.
func (s *Service) MyOrders(ctx context.Context, buyerID int64) ([]SalesOrder, error) {
	return s.repo.ListOrders(ctx, buyerID)
}
