package repository

import (
	"context"
	"errors"

	"github.com/digifood/restaurant-backend/entity"
	menupkg "github.com/digifood/restaurant-backend/menu"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMenuRepo implements menu.Repository using GORM.
type GormMenuRepo struct{ db *gorm.DB }

func NewGormMenuRepo(db *gorm.DB) menupkg.Repository { return &GormMenuRepo{db: db} }

func (r *GormMenuRepo) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var list []entity.Category
	if err := r.db.WithContext(ctx).Order("display_order ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormMenuRepo) CreateCategory(ctx context.Context, c *entity.Category) (*entity.Category, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, menupkg.ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

func (r *GormMenuRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) (*entity.Category, error) {
	res := r.db.WithContext(ctx).Model(&entity.Category{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, menupkg.ErrDuplicate
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, menupkg.ErrCategoryGone
	}
	var c entity.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormMenuRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return menupkg.ErrInUse
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return menupkg.ErrCategoryGone
	}
	return nil
}

func (r *GormMenuRepo) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]entity.MenuItem, error) {
	var list []entity.MenuItem
	q := r.db.WithContext(ctx).Order("name ASC").Order("created_at ASC")
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormMenuRepo) GetMenuItemByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, menupkg.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormMenuRepo) CreateMenuItem(ctx context.Context, m *entity.MenuItem) (*entity.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, menupkg.ErrCategoryGone
		}
		return nil, err
	}
	return m, nil
}

func (r *GormMenuRepo) UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) (*entity.MenuItem, error) {
	res := r.db.WithContext(ctx).Model(&entity.MenuItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return nil, menupkg.ErrCategoryGone
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, menupkg.ErrNotFound
	}
	return r.GetMenuItemByID(ctx, id)
}

func (r *GormMenuRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return menupkg.ErrInUse
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return menupkg.ErrNotFound
	}
	return nil
}

func (r *GormMenuRepo) ExistingMenuItemIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	m := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return m, nil
	}
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&entity.MenuItem{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		m[id] = struct{}{}
	}
	return m, nil
}

func (r *GormMenuRepo) ReplaceCatalog(ctx context.Context, categories []entity.Category, items []entity.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first so foreign keys never block the purge
		for _, model := range []any{&entity.OrderItem{}, &entity.Order{}, &entity.MenuItem{}, &entity.Category{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		if len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return err
			}
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
