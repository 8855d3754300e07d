package menu

import (
	"context"
	"errors"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("menu item not found")
	ErrCategoryGone = errors.New("category not found")
	ErrInUse        = errors.New("menu item is referenced by existing orders; mark it unavailable instead")
	ErrDuplicate    = errors.New("a category with this slug already exists")
	ErrInvalid      = errors.New("invalid menu data")
)

// MenuItemInput carries the fields of a new dish.
type MenuItemInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	IsAvailable bool
}

// MenuItemPatch carries optional dish updates; nil fields are left untouched.
type MenuItemPatch struct {
	CategoryID  *uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	IsAvailable *bool
}

// CategoryInput carries the fields of a category; used for create and update.
type CategoryInput struct {
	Name         string
	Slug         string
	ImageURL     string
	DisplayOrder int
}

// Service exposes menu browsing and admin CRUD.
type Service interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	// ListMenu returns available dishes, one per distinct name.
	ListMenu(ctx context.Context) ([]entity.MenuItem, error)
	// ListAllItems returns every dish, one per distinct name, for the dashboard.
	ListAllItems(ctx context.Context) ([]entity.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)

	CreateMenuItem(ctx context.Context, in MenuItemInput) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, patch MenuItemPatch) (*entity.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, in CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ExistingItemIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)

	// Seed replaces the whole catalog with the house menu. Existing orders are purged.
	Seed(ctx context.Context) error
}
