package customer

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
)

// CustomerRepository specifies profile related database operations.
type CustomerRepository interface {
	StoreProfile(ctx context.Context, p *entity.Profile) (*entity.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
