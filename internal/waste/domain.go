package waste

import (
	"errors"
	"time"
)

// ErrAlreadySold signals that the waste lot was bought by someone else first.
var ErrAlreadySold = errors.New("waste is already sold")

// Waste is a farm by-product lot a farmer records, optionally offered for
// sale on the waste marketplace.
type Waste struct {
	ID           int64     `json:"waste_id"`
	FarmerID     int64     `json:"farmer_id"`
	WasteType    string    `json:"waste_type"`
	QuantityKg   float64   `json:"quantity_kg"`
	Price        float64   `json:"price"`
	SuggestedUse string    `json:"suggested_use,omitempty"`
	ReusedAs     string    `json:"reused_as,omitempty"`
	Latitude     *float64  `json:"location_latitude,omitempty"`
	Longitude    *float64  `json:"location_longitude,omitempty"`
	ForSale      bool      `json:"for_sale"`
	IsSold       bool      `json:"is_sold"`
	CreatedAt    time.Time `json:"created_at"`

	FarmerName string `json:"farmer_name,omitempty"`
}

// Sale records a purchase of a waste lot.
type Sale struct {
	ID                int64     `json:"sale_id"`
	WasteID           int64     `json:"waste_id"`
	BuyerID           int64     `json:"buyer_id"`
	QuantityPurchased float64   `json:"quantity_purchased"`
	TotalPrice        float64   `json:"total_price"`
	PaymentStatus     string    `json:"payment_status"`
	PurchaseDate      time.Time `json:"purchase_date"`

	WasteType string `json:"waste_type,omitempty"`
}

// reuseAdvice maps waste types to suggested uses shown to farmers.
var reuseAdvice = map[string][]string{
	"dung": {
		"کھاد بنانے کے لیے (کمپوسٹ)",
		"بائیو گیس پلانٹ میں ڈالیں",
		"سبزیوں کی کھیتی میں استعمال",
	},
	"crop": {
		"کھاد بنانے کے لیے استعمال",
		"جانوروں کی خوراک کے طور پر",
		"باغ میں گھاس کے طور پر",
	},
	"spoiled": {
		"کمپوسٹ پلانٹ میں ڈالیں",
		"جانوروں کی خوراک کے طور پر بیچیں",
		"بائیو گیس میں تبدیل کریں",
	},
}

// Recommendations returns reuse suggestions for a waste type, or nil for
// unknown types.
func Recommendations(wasteType string) []string {
	return reuseAdvice[wasteType]
}
