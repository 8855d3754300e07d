package order

import (
	"context"
	"errors"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors surfaced to guests carry the exact text shown to them.
var (
	ErrNotFound           = errors.New("Order not found")
	ErrEmptyCart          = errors.New("your selection is empty")
	ErrStaleMenu          = errors.New("Gourmet Selection Update: The menu has been recently refined. Some items in your ritual are no longer in our current reserve. Please refresh your selection.")
	ErrCancellationWindow = errors.New("Orders can only be cancelled at least 3 hours before the scheduled arrival.")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrOutsideHours       = errors.New("Our kitchen creates rituals from 11:00 AM to 11:00 PM only.")
	ErrPastVisit          = errors.New("The past has already faded. Please select a future time.")
	ErrDuplicateRequest   = errors.New("this order request was already submitted")
	ErrInvalidLine        = errors.New("every line needs a dish, a positive quantity and a price")
)

// Line is one cart line handed to checkout.
type Line struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	UserID         uuid.UUID
	Lines          []Line
	VisitTime      time.Time
	IdempotencyKey string
}

type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*entity.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	// GetOrder returns an order visible to the caller: its owner, or anyone when asAdmin.
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, asAdmin bool) (*entity.Order, error)
	Cancel(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error)
	// UpdateStatus applies an admin transition (approved, rejected, completed).
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	ValidateVisitTime(visit time.Time) error
	Quote(lines []Line) Quote
}

// CartClearer empties a user's server-side cart.
type CartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ProfileReader resolves the display name stored on an order.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}

// IdempotencyGuard rejects replays of the same checkout request.
type IdempotencyGuard interface {
	// Claim returns false when key was already claimed.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
