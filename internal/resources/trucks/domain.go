package trucks

import (
	"errors"
	"time"
)

// Availability states for a truck.
const (
	StatusAvailable   = "available"
	StatusOnTrip      = "on_trip"
	StatusUnavailable = "unavailable"
)

// Payment states for a booking.
const (
	PaymentPending   = "pending"
	PaymentCancelled = "cancelled"
)

// ErrUnavailable signals that the truck is on a trip or withdrawn.
var ErrUnavailable = errors.New("truck is not available")

// Truck is freight transport a farmer offers on a fixed route, priced per
// kilometre.
type Truck struct {
	ID                  int64     `json:"truck_id"`
	OwnerID             int64     `json:"owner_id"`
	DriverName          string    `json:"driver_name"`
	RouteFrom           string    `json:"route_from"`
	RouteTo             string    `json:"route_to"`
	AvailableCapacityKg float64   `json:"available_capacity_kg"`
	CostPerKm           float64   `json:"cost_per_km"`
	Availability        string    `json:"availability"`
	CreatedAt           time.Time `json:"created_at"`
}

// Booking is a trip reservation. The total is estimated_km times the truck's
// per-kilometre rate, computed server-side.
type Booking struct {
	ID            int64     `json:"booking_id"`
	TruckID       int64     `json:"truck_id"`
	RenterID      int64     `json:"renter_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	EstimatedKm   float64   `json:"estimated_km"`
	TotalCost     float64   `json:"total_cost"`
	PaymentStatus string    `json:"payment_status"`

	TruckRoute string `json:"truck_route,omitempty"`
}
