package coops

import "time"

// Membership roles within a cooperative.
const (
	MemberRoleLeader = "leader"
	MemberRoleMember = "member"
)

// Cooperative is a farmer group organized around a region and purpose.
type Cooperative struct {
	ID        int64     `json:"coop_id"`
	Name      string    `json:"name"`
	Region    string    `json:"region"`
	Purpose   string    `json:"purpose"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	MemberCount int64 `json:"member_count"`
}

// Membership links a farmer to a cooperative.
type Membership struct {
	CoopID   int64     `json:"coop_id"`
	FarmerID int64     `json:"farmer_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	CoopName string `json:"coop_name,omitempty"`
}
