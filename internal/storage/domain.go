package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/agriverse/agriverse/internal/platform/httpx"
)

// RequestStatus tracks a storage request through its lifecycle.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	StatusSold     RequestStatus = "sold"
)

// ErrInvalidStatus signals a disallowed lifecycle transition, including two
// admins racing to decide the same request: the second decision loses.
var ErrInvalidStatus = errors.New("invalid status transition")

// Request is a farmer's application to store produce in a godown. The total
// fee is derived server-side as ceil(days) * the godown's daily fee.
type Request struct {
	ID                  int64         `json:"request_id"`
	FarmerID            int64         `json:"farmer_id"`
	GodownID            int64         `json:"godown_id"`
	ProductName         string        `json:"product_name"`
	QuantityKg          float64       `json:"quantity_kg"`
	PricePerKg          float64       `json:"price_per_kg"`
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	TemperatureRequired bool          `json:"temperature_required"`
	HumidityRequired    bool          `json:"humidity_required"`
	TotalStorageFee     float64       `json:"total_storage_fee"`
	Status              RequestStatus `json:"status"`
	IsSold              bool          `json:"is_sold"`
	BuyerID             *int64        `json:"buyer_id,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`

	// Joined godown details for listings.
	GodownName    string   `json:"godown_name,omitempty"`
	GodownCity    string   `json:"godown_city,omitempty"`
	GodownAddress string   `json:"godown_address,omitempty"`
	GodownPhone   string   `json:"godown_phone,omitempty"`
	GodownLat     *float64 `json:"godown_latitude,omitempty"`
	GodownLng     *float64 `json:"godown_longitude,omitempty"`

	// Joined farmer details for the admin view.
	FarmerName  string `json:"farmer_name,omitempty"`
	FarmerPhone string `json:"farmer_phone,omitempty"`
}

// parseDateRange parses YYYY-MM-DD bounds and requires end after start.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date", httpx.ErrValidation)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date", httpx.ErrValidation)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date must be after start date", httpx.ErrValidation)
	}
	return start, end, nil
}

// StorageDays returns the billed day count, rounding partial days up.
func StorageDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if end.Sub(start)%(24*time.Hour) != 0 {
		days++
	}
	return days
}
