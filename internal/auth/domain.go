package auth

import (
	"time"

	"github.com/agriverse/agriverse/internal/shared"
)

// User represents a stored user account. PasswordHash is a bcrypt hash;
// plaintext passwords never touch the database.
type User struct {
	ID                 int64
	FullName           string
	Email              string
	Phone              string
	PasswordHash       string
	Role               shared.Role
	LanguagePreference string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Identity projects the account into the session-facing identity.
func (u *User) Identity() shared.Identity {
	return shared.Identity{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               u.Role,
		LanguagePreference: u.LanguagePreference,
	}
}
