package menu

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
)

// Repository defines DB operations for the menu and its categories.
type Repository interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, c *entity.Category) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ListMenuItems returns dishes ordered by name. When onlyAvailable is set,
	// dishes with is_available=false are skipped.
	ListMenuItems(ctx context.Context, onlyAvailable bool) ([]entity.MenuItem, error)
	GetMenuItemByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *entity.MenuItem) (*entity.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, updates map[string]any) (*entity.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	// ExistingMenuItemIDs returns the subset of ids still present on the menu.
	ExistingMenuItemIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)

	// ReplaceCatalog wipes orders, dishes and categories and inserts the given
	// catalog in one transaction.
	ReplaceCatalog(ctx context.Context, categories []entity.Category, items []entity.MenuItem) error
}
