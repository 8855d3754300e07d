package repository

import (
	"context"
	"errors"

	authpkg "github.com/digifood/restaurant-backend/auth"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormAuthRepo struct {
	db *gorm.DB
}

func NewGormAuthRepo(db *gorm.DB) authpkg.Repository {
	return &GormAuthRepo{db: db}
}

func (r *GormAuthRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormAuthRepo) GetCredentialByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	var c entity.Credential
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authpkg.ErrInvalidCredentials
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormAuthRepo) StoreCredential(ctx context.Context, c *entity.Credential) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return authpkg.ErrEmailTaken
		}
		return err
	}
	return nil
}
