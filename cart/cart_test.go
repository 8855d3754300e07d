package cart

import (
	"context"
	"testing"

	"github.com/digifood/restaurant-backend/availability"
	"github.com/digifood/restaurant-backend/entity"
	menupkg "github.com/digifood/restaurant-backend/menu"
	"github.com/digifood/restaurant-backend/order"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenu struct{ dishes map[uuid.UUID]*entity.MenuItem }

func (m *fakeMenu) GetMenuItem(_ context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	d, ok := m.dishes[id]
	if !ok {
		return nil, menupkg.ErrNotFound
	}
	return d, nil
}

func (m *fakeMenu) ExistingItemIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := m.dishes[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

type fixedCounts map[uuid.UUID]int

func (c fixedCounts) DailyCounts(context.Context) (map[uuid.UUID]int, error) { return c, nil }

func setup(counts fixedCounts) (*Service, *fakeMenu, *MemoryStore, uuid.UUID, uuid.UUID) {
	cod := &entity.MenuItem{ID: uuid.New(), Name: "Miso Glazed Black Cod", Price: decimal.NewFromInt(3200), IsAvailable: true}
	soda := &entity.MenuItem{ID: uuid.New(), Name: "Sparkling Yuzu Soda", Price: decimal.NewFromInt(450), IsAvailable: true}
	menu := &fakeMenu{dishes: map[uuid.UUID]*entity.MenuItem{cod.ID: cod, soda.ID: soda}}
	store := NewMemoryStore()
	svc := NewService(store, menu, counts, availability.DefaultLimits, order.DefaultPricing, zerolog.Nop())
	return svc, menu, store, cod.ID, soda.ID
}

func TestAddIncrementsAndQuotes(t *testing.T) {
	svc, _, _, cod, soda := setup(fixedCounts{})
	user := uuid.New()
	ctx := context.Background()

	_, err := svc.Add(ctx, user, cod)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, cod)
	require.NoError(t, err)
	v, err := svc.Add(ctx, user, soda)
	require.NoError(t, err)

	require.Len(t, v.Items, 2)
	assert.Equal(t, 2, v.Items[0].Quantity)
	assert.True(t, v.Quote.Subtotal.Equal(decimal.NewFromInt(6850)))
	assert.Equal(t, 10, v.LeftToday[cod])
}

func TestAddEnforcesCaps(t *testing.T) {
	svc, _, _, cod, _ := setup(fixedCounts{})
	user := uuid.New()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Add(ctx, user, cod)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, user, cod)
	assert.ErrorIs(t, err, availability.ErrLineLimit)

	svc2, _, _, cod2, _ := setup(fixedCounts{})
	svc2.counter = fixedCounts{cod2: 9}
	_, err = svc2.Add(ctx, user, cod2)
	require.NoError(t, err)
	_, err = svc2.Add(ctx, user, cod2)
	assert.ErrorIs(t, err, availability.ErrSoldOut)

	_, err = svc.Add(ctx, user, uuid.New())
	assert.ErrorIs(t, err, menupkg.ErrNotFound)
}

func TestAddRejectsUnavailableDish(t *testing.T) {
	svc, menu, _, cod, _ := setup(fixedCounts{})
	menu.dishes[cod].IsAvailable = false
	_, err := svc.Add(context.Background(), uuid.New(), cod)
	assert.ErrorIs(t, err, ErrDishUnavailable)
}

func TestChangeQuantity(t *testing.T) {
	svc, _, _, cod, _ := setup(fixedCounts{})
	user := uuid.New()
	ctx := context.Background()
	_, err := svc.Add(ctx, user, cod)
	require.NoError(t, err)

	v, err := svc.ChangeQuantity(ctx, user, cod, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Items[0].Quantity)

	v, err = svc.ChangeQuantity(ctx, user, cod, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Items[0].Quantity)
	assert.Equal(t, "Limit: 5 portions per masterpiece", v.Notice)

	svc.counter = fixedCounts{cod: 6}
	_, err = svc.ChangeQuantity(ctx, user, cod, -1)
	require.NoError(t, err)
	_, err = svc.ChangeQuantity(ctx, user, cod, 1)
	assert.EqualError(t, err, "Sold Out: Only 4 portions left for today across all orders.")

	_, err = svc.ChangeQuantity(ctx, user, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotInCart)
}

func TestGetPrunesDeletedDishes(t *testing.T) {
	svc, menu, store, cod, soda := setup(fixedCounts{})
	user := uuid.New()
	ctx := context.Background()
	_, err := svc.Add(ctx, user, cod)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, soda)
	require.NoError(t, err)

	delete(menu.dishes, cod)
	v, err := svc.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Removed)
	require.Len(t, v.Items, 1)
	assert.Equal(t, soda, v.Items[0].MenuItemID)

	stored, err := store.Load(ctx, user)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	lines, err := svc.Lines(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []order.Line{{MenuItemID: soda, Name: "Sparkling Yuzu Soda", Quantity: 1, Price: decimal.NewFromInt(450)}}, lines)
}

func TestRemoveAndClear(t *testing.T) {
	svc, _, _, cod, soda := setup(fixedCounts{})
	user := uuid.New()
	ctx := context.Background()
	_, _ = svc.Add(ctx, user, cod)
	_, _ = svc.Add(ctx, user, soda)

	v, err := svc.Remove(ctx, user, cod)
	require.NoError(t, err)
	assert.Len(t, v.Items, 1)

	require.NoError(t, svc.Clear(ctx, user))
	v, err = svc.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.True(t, v.Quote.Total.IsZero())
}
