package shared

// Role determines which navigation area a user may visit.
type Role string

const (
	RoleFarmer      Role = "farmer"
	RoleBuyer       Role = "buyer"
	RoleGodownAdmin Role = "godown_admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleGodownAdmin:
		return true
	}
	return false
}

// Identity is the authenticated user as seen by the rest of the application.
// Issued by the credential verifier on login or signup; immutable afterwards
// except through the profile-edit flow, which re-issues it.
type Identity struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               Role   `json:"role"`
	LanguagePreference string `json:"language_preference,omitempty"`
}
