package godowns

import "time"

// Godown is a warehouse offered for produce storage. Latitude/longitude feed
// the client's map picker.
type Godown struct {
	ID                  int64     `json:"godown_id"`
	AdminID             int64     `json:"admin_id"`
	Name                string    `json:"name"`
	City                string    `json:"city"`
	Address             string    `json:"address"`
	Phone               string    `json:"phone,omitempty"`
	TotalCapacityKg     float64   `json:"total_capacity_kg"`
	AvailableCapacityKg float64   `json:"available_capacity_kg"`
	StorageFeePerDay    float64   `json:"storage_fee_per_day"`
	TemperatureControl  bool      `json:"temperature_control"`
	HumidityControl     bool      `json:"humidity_control"`
	Latitude            *float64  `json:"location_latitude,omitempty"`
	Longitude           *float64  `json:"location_longitude,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
