package marketplace

import "time"

// ItemStatus tracks a godown marketplace listing.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available"
	ItemSold      ItemStatus = "sold"
)

// Item is produce listed on the godown marketplace. Rows are created when an
// admin approves a storage request and closed when a buyer purchases.
type Item struct {
	ID          int64      `json:"item_id"`
	GodownID    int64      `json:"godown_id"`
	FarmerID    int64      `json:"farmer_id"`
	RequestID   int64      `json:"request_id"`
	ProductName string     `json:"product_name"`
	QuantityKg  float64    `json:"quantity_kg"`
	PricePerKg  float64    `json:"price_per_kg"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	GodownName string `json:"godown_name,omitempty"`
	GodownCity string `json:"godown_city,omitempty"`
	FarmerName string `json:"farmer_name,omitempty"`
}

// StorageItem is self-stored inventory a farmer lists on the peer market.
type StorageItem struct {
	ID          int64     `json:"item_id"`
	FarmerID    int64     `json:"farmer_id"`
	ProductName string    `json:"product_name"`
	QuantityKg  float64   `json:"quantity_kg"`
	PricePerKg  float64   `json:"price_per_kg"`
	City        string    `json:"city"`
	CreatedAt   time.Time `json:"created_at"`

	FarmerName string `json:"farmer_name,omitempty"`
}

// SalesOrder records a purchase of a self-stored item. The total is always
// derived server-side from the item's quantity and unit price.
type SalesOrder struct {
	ID            int64     `json:"order_id"`
	BuyerID       int64     `json:"buyer_id"`
	ItemID        int64     `json:"item_id"`
	QuantityKg    float64   `json:"quantity_kg"`
	TotalPrice    float64   `json:"total_price"`
	PaymentStatus string    `json:"payment_status"`
	OrderDate     time.Time `json:"order_date"`

	ProductName string `json:"product_name,omitempty"`
}
