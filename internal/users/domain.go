package users

import (
	"time"

	"github.com/agriverse/agriverse/internal/shared"
)

// User represents a user account for profile management.
type User struct {
	ID                 int64       `json:"id"`
	FullName           string      `json:"full_name"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Role               shared.Role `json:"role"`
	LanguagePreference string      `json:"language_preference"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName           string
	Phone              string
	LanguagePreference string
}
