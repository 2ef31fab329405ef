package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agriverse/agriverse/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// SignupParams collects the fields required to open an account.
type SignupParams struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     shared.Role
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, params SignupParams) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	lang := "english"
	return s.repo.CreateUser(ctx, User{
		FullName:           params.FullName,
		Email:              params.Email,
		Phone:              params.Phone,
		PasswordHash:       string(hash),
		Role:               params.Role,
		LanguagePreference: lang,
	})
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
