package service

import (
	"context"
	"errors"
	"testing"

	adminpkg "github.com/digifood/restaurant-backend/admin"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTallies struct{ rows []adminpkg.StatusTally }

func (s stubTallies) TallyByStatus(context.Context) ([]adminpkg.StatusTally, error) { return s.rows, nil }

type stubOrders struct {
	list []entity.Order
	err  error
}

func (s stubOrders) ListAll(context.Context) ([]entity.Order, error) { return s.list, s.err }

type stubMenu struct{}

func (stubMenu) ListAllItems(context.Context) ([]entity.MenuItem, error) {
	return []entity.MenuItem{{Name: "Sea Bass Pao"}}, nil
}

func (stubMenu) ListCategories(context.Context) ([]entity.Category, error) {
	return []entity.Category{{Slug: "starters"}, {Slug: "desserts"}}, nil
}

type stubCounter map[uuid.UUID]int

func (s stubCounter) DailyCounts(context.Context) (map[uuid.UUID]int, error) { return s, nil }

func TestDashboardAggregates(t *testing.T) {
	dish := uuid.New()
	tallies := []adminpkg.StatusTally{{Status: entity.OrderPending, Count: 2, Total: decimal.NewFromInt(4000), Paid: decimal.NewFromInt(2000)}}
	svc := NewAdminService(stubTallies{tallies}, stubOrders{}, stubMenu{}, stubCounter{dish: 3})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, d.Orders)
	assert.Len(t, d.MenuItems, 1)
	assert.Len(t, d.Categories, 2)
	assert.Equal(t, tallies, d.Tallies)
	assert.Equal(t, 3, d.OrderedToday[dish])
}

func TestDashboardFailsWhenAnyPartFails(t *testing.T) {
	svc := NewAdminService(stubTallies{}, stubOrders{err: errors.New("boom")}, stubMenu{}, stubCounter{})
	_, err := svc.Dashboard(context.Background())
	assert.ErrorContains(t, err, "load orders: boom")
}
