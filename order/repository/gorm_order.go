package repository

import (
	"context"
	"errors"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormOrderRepo struct{ db *gorm.DB }

func NewGormOrderRepo(db *gorm.DB) orderpkg.Repository { return &GormOrderRepo{db: db} }

func (r *GormOrderRepo) CreateOrderWithItems(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	items := o.Items
	o.Items = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, orderpkg.ErrStaleMenu
		}
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *GormOrderRepo) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("Items.MenuItem")
}

func (r *GormOrderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var o entity.Order
	if err := r.withLines(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderpkg.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepo) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Order, error) {
	var o entity.Order
	if err := r.withLines(ctx).Where("id = ? AND user_id = ?", id, userID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderpkg.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepo) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var list []entity.Order
	if err := r.withLines(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormOrderRepo) ListAllOrders(ctx context.Context) ([]entity.Order, error) {
	var list []entity.Order
	if err := r.withLines(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormOrderRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from entity.OrderStatus, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return orderpkg.ErrNotFound
		}
		return orderpkg.ErrInvalidTransition
	}
	return nil
}

type dishCount struct {
	MenuItemID uuid.UUID
	Total      int
}

func (r *GormOrderRepo) DailyQuantities(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	var rows []dishCount
	err := r.db.WithContext(ctx).
		Model(&entity.OrderItem{}).
		Select("order_items.menu_item_id AS menu_item_id, COALESCE(SUM(order_items.quantity), 0) AS total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ? AND orders.created_at >= ? AND orders.created_at < ?", entity.OrderCancelled, from, to).
		Group("order_items.menu_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.MenuItemID] = row.Total
	}
	return counts, nil
}
