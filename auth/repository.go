package auth

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
)

// Repository exposes the rows used for authentication.
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	GetCredentialByEmail(ctx context.Context, email string) (*entity.Credential, error)
	StoreCredential(ctx context.Context, c *entity.Credential) error
}
