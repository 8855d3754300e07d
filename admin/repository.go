package admin

import (
	"context"

	"github.com/digifood/restaurant-backend/entity"
	"github.com/shopspring/decimal"
)

// StatusTally is the count and value of orders in one status.
type StatusTally struct {
	Status entity.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
	Total  decimal.Decimal    `json:"total"`
	Paid   decimal.Decimal    `json:"paid"`
}

// AdminRepository specifies reporting queries for the dashboard.
type AdminRepository interface {
	TallyByStatus(ctx context.Context) ([]StatusTally, error)
}
