package repository

import (
	"context"
	"errors"

	authpkg "github.com/digifood/restaurant-backend/auth"
	customerpkg "github.com/digifood/restaurant-backend/customer"
	"github.com/digifood/restaurant-backend/entity"
	"gorm.io/gorm"
)

// GormCustomerRepo implements customer.CustomerRepository using GORM.
type GormCustomerRepo struct {
	db *gorm.DB
}

func NewGormCustomerRepo(db *gorm.DB) customerpkg.CustomerRepository {
	return &GormCustomerRepo{db: db}
}

func (r *GormCustomerRepo) StoreProfile(ctx context.Context, p *entity.Profile) (*entity.Profile, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, authpkg.ErrEmailTaken
		}
		return nil, err
	}
	return p, nil
}

func (r *GormCustomerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
