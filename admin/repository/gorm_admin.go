package repository

import (
	"context"

	adminpkg "github.com/digifood/restaurant-backend/admin"
	"github.com/digifood/restaurant-backend/entity"
	"gorm.io/gorm"
)

// GormAdminRepo implements admin.AdminRepository using GORM.
type GormAdminRepo struct {
	db *gorm.DB
}

func NewGormAdminRepo(db *gorm.DB) adminpkg.AdminRepository {
	return &GormAdminRepo{db: db}
}

func (r *GormAdminRepo) TallyByStatus(ctx context.Context) ([]adminpkg.StatusTally, error) {
	var rows []adminpkg.StatusTally
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total, COALESCE(SUM(paid_amount), 0) AS paid").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
