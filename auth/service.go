package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrAdminDisabled      = errors.New("admin login is not configured")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
)

// LoginRequest authenticates a guest by email and password.
type LoginRequest struct {
	Email    string
	Password string
}

// AdminLoginRequest authenticates the house administrator.
type AdminLoginRequest struct {
	Username string
	Password string
}

type Principal struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Token    string `json:"token"`
}

// IdentityProvider owns passwords. The service never sees a hash.
type IdentityProvider interface {
	// CreateUser registers a new identity and returns its id.
	CreateUser(ctx context.Context, email, password, fullName string) (uuid.UUID, error)
	// SignIn verifies the password and returns the identity id.
	SignIn(ctx context.Context, email, password string) (uuid.UUID, error)
}

// CartClearer drops a user's pending cart on logout.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*Principal, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*Principal, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	// Authenticate validates a bearer token.
	Authenticate(token string) (*Claims, error)
}
