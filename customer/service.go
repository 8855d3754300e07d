package customer

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
)

// RegisterCustomerRequest carries the data required to sign a guest up.
type RegisterCustomerRequest struct {
	Email    string
	Password string
	FullName string
}

// CustomerService exposes customer-related business operations.
type CustomerService interface {
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*entity.Profile, error)
}
