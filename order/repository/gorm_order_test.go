package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/digifood/restaurant-backend/entity"
	orderpkg "github.com/digifood/restaurant-backend/order"
)

// schema mirrors the migrated postgres tables closely enough for sqlite.
var schema = []string{
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		image_url TEXT,
		display_order INTEGER NOT NULL
	)`,
	`CREATE TABLE menu_items (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC NOT NULL,
		image_url TEXT,
		is_available BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		total_amount NUMERIC NOT NULL,
		paid_amount NUMERIC NOT NULL,
		visit_time DATETIME NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		customer_name TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id TEXT NOT NULL REFERENCES menu_items(id) ON DELETE RESTRICT,
		quantity INTEGER NOT NULL,
		price_at_time NUMERIC NOT NULL
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedDish(t *testing.T, db *gorm.DB, name string) entity.MenuItem {
	t.Helper()
	cat := entity.Category{Name: name + " category", Slug: uuid.NewString(), DisplayOrder: 1}
	require.NoError(t, db.Create(&cat).Error)
	m := entity.MenuItem{CategoryID: cat.ID, Name: name, Price: decimal.NewFromInt(850), IsAvailable: true}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func newOrder(user uuid.UUID, status entity.OrderStatus, createdAt time.Time, lines ...entity.OrderItem) *entity.Order {
	return &entity.Order{
		UserID:        user,
		TotalAmount:   decimal.NewFromInt(1700),
		PaidAmount:    decimal.NewFromInt(850),
		VisitTime:     createdAt.Add(8 * time.Hour),
		Status:        status,
		PaymentStatus: entity.PaymentPartiallyPaid,
		CreatedAt:     createdAt,
		Items:         lines,
	}
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateOrderWithItemsStoresHeaderAndLines(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepo(db)
	dish := seedDish(t, db, "Sea Bass Pao")
	user := uuid.New()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	created, err := repo.CreateOrderWithItems(context.Background(),
		newOrder(user, entity.OrderPending, now, entity.OrderItem{MenuItemID: dish.ID, Quantity: 2, PriceAtTime: dish.Price}))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.GetOrderForUser(context.Background(), created.ID, user)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.Items[0].MenuItem)
	assert.Equal(t, "Sea Bass Pao", got.Items[0].MenuItem.Name)

	_, err = repo.GetOrderForUser(context.Background(), created.ID, uuid.New())
	assert.ErrorIs(t, err, orderpkg.ErrNotFound)
}

func TestCreateOrderWithStaleDishRollsBackHeader(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepo(db)
	dish := seedDish(t, db, "Ahi Tuna Tartare")
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.CreateOrderWithItems(context.Background(), newOrder(uuid.New(), entity.OrderPending, now,
		entity.OrderItem{MenuItemID: dish.ID, Quantity: 1, PriceAtTime: dish.Price},
		entity.OrderItem{MenuItemID: uuid.New(), Quantity: 1, PriceAtTime: decimal.NewFromInt(450)},
	))
	require.ErrorIs(t, err, orderpkg.ErrStaleMenu)
	assert.Zero(t, countRows(t, db, &entity.Order{}))
	assert.Zero(t, countRows(t, db, &entity.OrderItem{}))
}

func TestDailyQuantitiesSkipsCancelledAndOutOfWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepo(db)
	tuna := seedDish(t, db, "Ahi Tuna Tartare")
	cod := seedDish(t, db, "Miso Glazed Black Cod")
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	ctx := context.Background()

	place := func(status entity.OrderStatus, at time.Time, lines ...entity.OrderItem) {
		_, err := repo.CreateOrderWithItems(ctx, newOrder(uuid.New(), status, at, lines...))
		require.NoError(t, err)
	}
	line := func(m entity.MenuItem, qty int) entity.OrderItem {
		return entity.OrderItem{MenuItemID: m.ID, Quantity: qty, PriceAtTime: m.Price}
	}

	place(entity.OrderPending, from.Add(12*time.Hour), line(tuna, 2), line(cod, 1))
	place(entity.OrderApproved, from, line(tuna, 3))
	place(entity.OrderCancelled, from.Add(13*time.Hour), line(tuna, 5), line(cod, 4))
	place(entity.OrderPending, to, line(cod, 2))
	place(entity.OrderPending, from.Add(-time.Second), line(tuna, 1))

	counts, err := repo.DailyQuantities(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{tuna.ID: 5, cod.ID: 1}, counts)
}

func TestUpdateOrderStatusRequiresExpectedStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepo(db)
	dish := seedDish(t, db, "Berry Blush Cheesecake")
	ctx := context.Background()
	o, err := repo.CreateOrderWithItems(ctx, newOrder(uuid.New(), entity.OrderPending, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		entity.OrderItem{MenuItemID: dish.ID, Quantity: 1, PriceAtTime: dish.Price}))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateOrderStatus(ctx, o.ID, entity.OrderPending, map[string]any{"status": entity.OrderCancelled}))

	err = repo.UpdateOrderStatus(ctx, o.ID, entity.OrderPending, map[string]any{"status": entity.OrderApproved})
	assert.ErrorIs(t, err, orderpkg.ErrInvalidTransition)

	got, err := repo.GetOrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)

	err = repo.UpdateOrderStatus(ctx, uuid.New(), entity.OrderPending, map[string]any{"status": entity.OrderApproved})
	assert.ErrorIs(t, err, orderpkg.ErrNotFound)
}
