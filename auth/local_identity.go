package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalIdentity keeps bcrypt hashes in the credentials table.
type LocalIdentity struct {
	repo Repository
	cost int
}

func NewLocalIdentity(repo Repository) *LocalIdentity {
	return &LocalIdentity{repo: repo, cost: bcrypt.DefaultCost}
}

func (l *LocalIdentity) CreateUser(ctx context.Context, email, password, _ string) (uuid.UUID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return uuid.Nil, err
	}
	c := &entity.Credential{
		UserID:       uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	}
	if err := l.repo.StoreCredential(ctx, c); err != nil {
		return uuid.Nil, err
	}
	return c.UserID, nil
}

func (l *LocalIdentity) SignIn(ctx context.Context, email, password string) (uuid.UUID, error) {
	c, err := l.repo.GetCredentialByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return uuid.Nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return uuid.Nil, ErrInvalidCredentials
		}
		return uuid.Nil, err
	}
	return c.UserID, nil
}
