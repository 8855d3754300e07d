package order

import (
	"context"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
)

// Repository defines DB operations for orders and their lines.
type Repository interface {
	// CreateOrderWithItems inserts the header and every line atomically.
	// A line pointing at a deleted dish yields ErrStaleMenu and nothing is stored.
	CreateOrderWithItems(ctx context.Context, o *entity.Order) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetOrderForUser scopes the lookup to the owner.
	GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Order, error)
	// ListOrdersForUser returns the user's orders, newest first, lines and dishes preloaded.
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	ListAllOrders(ctx context.Context) ([]entity.Order, error)
	// UpdateOrderStatus applies updates only while the order is still in from;
	// a concurrent change yields ErrInvalidTransition.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from entity.OrderStatus, updates map[string]any) error

	// DailyQuantities sums line quantities per dish over non-cancelled orders
	// created in [from, to).
	DailyQuantities(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error)
}
