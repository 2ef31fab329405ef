package tools

import (
	"errors"
	"time"
)

// Availability states for a tool.
const (
	StatusAvailable = "available"
	StatusRented    = "rented"
)

// Payment states for a booking.
const (
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
)

// ErrUnavailable signals that the tool is already rented out.
var ErrUnavailable = errors.New("tool is not available")

// Tool is farm equipment a farmer offers for daily rental, with an optional
// map location.
type Tool struct {
	ID                 int64     `json:"tool_id"`
	OwnerID            int64     `json:"owner_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	RentPricePerDay    float64   `json:"rent_price_per_day"`
	AvailabilityStatus string    `json:"availability_status"`
	Latitude           *float64  `json:"location_latitude,omitempty"`
	Longitude          *float64  `json:"location_longitude,omitempty"`
	CreatedAt          time.Time `json:"created_at"`

	OwnerName string `json:"owner_name,omitempty"`
}

// Booking is a one-day rental of a tool.
type Booking struct {
	ID            int64     `json:"booking_id"`
	ToolID        int64     `json:"tool_id"`
	RenterID      int64     `json:"renter_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	TotalCost     float64   `json:"total_cost"`
	PaymentStatus string    `json:"payment_status"`

	ToolName string `json:"tool_name,omitempty"`
}
