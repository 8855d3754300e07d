package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	authpkg "github.com/digifood/restaurant-backend/auth"
	customerpkg "github.com/digifood/restaurant-backend/customer"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/rs/zerolog"
)

const minPasswordLen = 6

// customerService implements CustomerService.
type customerService struct {
	repo     customerpkg.CustomerRepository
	identity authpkg.IdentityProvider
	log      zerolog.Logger
}

// NewCustomerService constructs a CustomerService backed by the provided repository.
func NewCustomerService(repo customerpkg.CustomerRepository, identity authpkg.IdentityProvider, log zerolog.Logger) customerpkg.CustomerService {
	return &customerService{repo: repo, identity: identity, log: log.With().Str("component", "customer_service").Logger()}
}

// RegisterCustomer creates the identity and then the matching profile row.
func (s *customerService) RegisterCustomer(ctx context.Context, req customerpkg.RegisterCustomerRequest) (*entity.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: %q", authpkg.ErrInvalidEmail, req.Email)
	}
	if len(req.Password) < minPasswordLen {
		return nil, authpkg.ErrWeakPassword
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, authpkg.ErrEmailTaken
	}

	id, err := s.identity.CreateUser(ctx, email, req.Password, strings.TrimSpace(req.FullName))
	if err != nil {
		return nil, err
	}

	p := &entity.Profile{ID: id, FullName: strings.TrimSpace(req.FullName), Email: email}
	created, err := s.repo.StoreProfile(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", id.String()).Msg("identity created but profile insert failed")
		return nil, err
	}
	s.log.Info().Str("user_id", id.String()).Msg("guest registered")
	return created, nil
}
