package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	authpkg "github.com/digifood/restaurant-backend/auth"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures token issuance and the admin account.
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

type authService struct {
	repo     authpkg.Repository
	identity authpkg.IdentityProvider
	cart     authpkg.CartClearer
	opts     Options
	log      zerolog.Logger
}

func NewAuthService(repo authpkg.Repository, identity authpkg.IdentityProvider, cart authpkg.CartClearer, opts Options, log zerolog.Logger) authpkg.Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &authService{
		repo:     repo,
		identity: identity,
		cart:     cart,
		opts:     opts,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req authpkg.LoginRequest) (*authpkg.Principal, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, authpkg.ErrInvalidCredentials
	}
	userID, err := s.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	p := &authpkg.Principal{
		UserID: userID.String(),
		Role:   authpkg.RoleCustomer,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if profile, err := s.repo.GetProfile(ctx, userID); err == nil {
		p.FullName = profile.FullName
		p.Email = profile.Email
	} else {
		s.log.Warn().Err(err).Str("user_id", p.UserID).Msg("signed in without a profile row")
	}

	token, err := authpkg.SignJWT(s.opts.JWTSecret, p, s.opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	p.Token = token
	s.log.Info().Str("user_id", p.UserID).Msg("guest signed in")
	return p, nil
}

func (s *authService) AdminLogin(_ context.Context, req authpkg.AdminLoginRequest) (*authpkg.Principal, error) {
	if s.opts.AdminUsername == "" || s.opts.AdminPassword == "" {
		return nil, authpkg.ErrAdminDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.opts.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.opts.AdminPassword)) == 1
	if !userOK || !passOK {
		s.log.Warn().Msg("admin login rejected")
		return nil, authpkg.ErrInvalidCredentials
	}

	p := &authpkg.Principal{
		UserID:   AdminUserID(s.opts.AdminUsername).String(),
		Role:     authpkg.RoleAdmin,
		FullName: s.opts.AdminUsername,
	}
	token, err := authpkg.SignJWT(s.opts.JWTSecret, p, s.opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	p.Token = token
	return p, nil
}

// AdminUserID derives a stable id for the configured admin account.
func AdminUserID(username string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("digifood-admin:"+username))
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if s.cart == nil {
		return nil
	}
	if err := s.cart.Clear(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID.String()).Msg("signed out; cart cleared")
	return nil
}

func (s *authService) Authenticate(token string) (*authpkg.Claims, error) {
	return authpkg.ParseAndValidate(s.opts.JWTSecret, token)
}
