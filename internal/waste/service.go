package waste

import (
	"context"
	"fmt"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// Service wraps waste marketplace rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordParams collects the waste entry form.
type RecordParams struct {
	WasteType    string
	QuantityKg   float64
	Price        float64
	SuggestedUse string
	ReusedAs     string
	Latitude     *float64
	Longitude    *float64
	ForSale      bool
}

func (p RecordParams) validate() error {
	switch {
	case p.WasteType == "":
		return fmt.Errorf("%w: waste type is required", httpx.ErrValidation)
	case p.QuantityKg <= 0:
		return fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	case p.ForSale && p.Price <= 0:
		return fmt.Errorf("%w: a price is required to sell", httpx.ErrValidation)
	case (p.Latitude == nil) != (p.Longitude == nil):
		return fmt.Errorf("%w: latitude and longitude must be set together", httpx.ErrValidation)
	}
	return nil
}

// Record logs a waste lot, optionally straight onto the marketplace.
func (s *Service) Record(ctx context.Context, farmerID int64, params RecordParams) (Waste, error) {
	if err := params.validate(); err != nil {
		return Waste{}, err
	}
	return s.repo.Create(ctx, Waste{
		FarmerID:     farmerID,
		WasteType:    params.WasteType,
		QuantityKg:   params.QuantityKg,
		Price:        params.Price,
		SuggestedUse: params.SuggestedUse,
		ReusedAs:     params.ReusedAs,
		Latitude:     params.Latitude,
		Longitude:    params.Longitude,
		ForSale:      params.ForSale,
	})
}

// Update rewrites the farmer's own lot.
func (s *Service) Update(ctx context.Context, id, farmerID int64, params RecordParams) (Waste, error) {
	if err := params.validate(); err != nil {
		return Waste{}, err
	}
	err := s.repo.Update(ctx, Waste{
		ID:           id,
		FarmerID:     farmerID,
		WasteType:    params.WasteType,
		QuantityKg:   params.QuantityKg,
		Price:        params.Price,
		SuggestedUse: params.SuggestedUse,
		ReusedAs:     params.ReusedAs,
		Latitude:     params.Latitude,
		Longitude:    params.Longitude,
		ForSale:      params.ForSale,
	})
	if err != nil {
		return Waste{}, err
	}
	return s.repo.Get(ctx, id)
}

// SendToMarket flips an existing lot onto the marketplace.
func (s *Service) SendToMarket(ctx context.Context, id, farmerID int64) (Waste, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return Waste{}, err
	}
	if w.FarmerID != farmerID {
		return Waste{}, httpx.ErrForbidden
	}
	if w.Price <= 0 {
		return Waste{}, fmt.Errorf("%w: a price is required to sell", httpx.ErrValidation)
	}
	w.ForSale = true
	if err := s.repo.Update(ctx, w); err != nil {
		return Waste{}, err
	}
	return w, nil
}

// ListMine returns the farmer's own lots.
func (s *Service) ListMine(ctx context.Context, farmerID int64) ([]Waste, error) {
	return s.repo.List(ctx, ListFilters{FarmerID: &farmerID})
}

// Market returns other farmers' unsold lots offered for sale.
func (s *Service) Market(ctx context.Context, viewerID int64) ([]Waste, error) {
	forSale := true
	return s.repo.List(ctx, ListFilters{
		ExcludeFarmerID: &viewerID,
		ForSale:         &forSale,
		Unsold:          true,
	})
}

// Remove deletes the farmer's own lot.
func (s *Service) Remove(ctx context.Context, id, farmerID int64) error {
	return s.repo.Delete(ctx, id, farmerID)
}

// Buy purchases the whole lot at its listed price. Farmers cannot buy their
// own waste.
func (s *Service) Buy(ctx context.Context, wasteID, buyerID int64) (Sale, error) {
	w, err := s.repo.Get(ctx, wasteID)
	if err != nil {
		return Sale{}, err
	}
	if w.FarmerID == buyerID {
		return Sale{}, httpx.ErrForbidden
	}
	if !w.ForSale {
		return Sale{}, fmt.Errorf("%w: lot is not for sale", httpx.ErrValidation)
	}
	return s.repo.Buy(ctx, Sale{
		WasteID:           wasteID,
		BuyerID:           buyerID,
		QuantityPurchased: w.QuantityKg,
		TotalPrice:        w.Price,
		PaymentStatus:     "pending",
	})
}

// MyPurchases returns the buyer's waste purchases.
func (s *Service) MyPurchases(ctx context.Context, buyerID int64) ([]Sale, error) {
	return s.repo.SalesByBuyer(ctx, buyerID)
}

// Advice returns reuse suggestions for a waste type.
func (s *Service) Advice(wasteType string) []string {
	return Recommendations(wasteType)
}
