package admin

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
)

// Dashboard is everything the admin screen renders in one round trip.
type Dashboard struct {
	Orders     []entity.Order    `json:"orders"`
	MenuItems  []entity.MenuItem `json:"menu_items"`
	Categories []entity.Category `json:"categories"`
	Tallies    []StatusTally     `json:"tallies"`
	// OrderedToday maps dish id to portions committed today.
	OrderedToday map[uuid.UUID]int `json:"ordered_today"`
}

// AdminService exposes admin-related business operations.
type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}
