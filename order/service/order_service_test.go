package service

import (
	"context"
	"testing"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/digifood/restaurant-backend/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	orders    map[uuid.UUID]*entity.Order
	createErr error
}

func newMemRepo() *memRepo { return &memRepo{orders: map[uuid.UUID]*entity.Order{}} }

func (m *memRepo) CreateOrderWithItems(_ context.Context, o *entity.Order) (*entity.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	m.orders[o.ID] = &cp
	return o, nil
}

func (m *memRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, orderpkg.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Order, error) {
	o, err := m.GetOrderByID(ctx, id)
	if err != nil || o.UserID != userID {
		return nil, orderpkg.ErrNotFound
	}
	return o, nil
}

func (m *memRepo) ListOrdersForUser(_ context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memRepo) ListAllOrders(context.Context) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memRepo) UpdateOrderStatus(_ context.Context, id uuid.UUID, from entity.OrderStatus, updates map[string]any) error {
	o, ok := m.orders[id]
	if !ok {
		return orderpkg.ErrNotFound
	}
	if o.Status != from {
		return orderpkg.ErrInvalidTransition
	}
	if s, ok := updates["status"].(entity.OrderStatus); ok {
		o.Status = s
	}
	if p, ok := updates["payment_status"].(entity.PaymentStatus); ok {
		o.PaymentStatus = p
	}
	if a, ok := updates["paid_amount"].(decimal.Decimal); ok {
		o.PaidAmount = a
	}
	return nil
}

func (m *memRepo) DailyQuantities(context.Context, time.Time, time.Time) (map[uuid.UUID]int, error) {
	return nil, nil
}

type stubProfiles struct{ p *entity.Profile }

func (s stubProfiles) GetProfile(context.Context, uuid.UUID) (*entity.Profile, error) { return s.p, nil }

type countingCart struct{ cleared []uuid.UUID }

func (c *countingCart) Clear(_ context.Context, userID uuid.UUID) error {
	c.cleared = append(c.cleared, userID)
	return nil
}

type memGuard struct {
	keys     map[string]bool
	released []string
}

func (g *memGuard) Claim(_ context.Context, key string) (bool, error) {
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *memGuard) Release(_ context.Context, key string) error {
	delete(g.keys, key)
	g.released = append(g.released, key)
	return nil
}

type recorder struct{ changes []realtime.Change }

func (r *recorder) Publish(_ context.Context, c realtime.Change) error {
	r.changes = append(r.changes, c)
	return nil
}

type fixture struct {
	svc    *orderService
	repo   *memRepo
	cart   *countingCart
	guard  *memGuard
	events *recorder
	now    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newMemRepo(),
		cart:   &countingCart{},
		guard:  &memGuard{keys: map[string]bool{}},
		events: &recorder{},
		now:    time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	policy := orderpkg.DefaultPolicy
	policy.Location = time.UTC
	svc := NewOrderService(f.repo, stubProfiles{&entity.Profile{Email: "ada@example.com", FullName: "Ada L"}},
		f.cart, f.guard, f.events, orderpkg.DefaultPricing, policy, zerolog.Nop()).(*orderService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func sampleLines() []orderpkg.Line {
	return []orderpkg.Line{
		{MenuItemID: uuid.New(), Quantity: 2, Price: decimal.NewFromInt(850)},
		{MenuItemID: uuid.New(), Quantity: 1, Price: decimal.NewFromInt(1450)},
	}
}

func TestCreateOrderStoresTotalsAndClearsCart(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	visit := time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)

	o, err := f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{UserID: user, Lines: sampleLines(), VisitTime: visit})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(3150)))
	assert.True(t, o.PaidAmount.Equal(decimal.NewFromInt(1575)))
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, entity.PaymentPartiallyPaid, o.PaymentStatus)
	assert.Equal(t, "Ada L", o.CustomerName)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Items[0].PriceAtTime.Equal(decimal.NewFromInt(850)))

	assert.Equal(t, []uuid.UUID{user}, f.cart.cleared)
	require.Len(t, f.events.changes, 1)
	assert.Equal(t, realtime.Change{Table: realtime.TableOrders, Type: realtime.ChangeInsert, RecordID: o.ID.String(), OwnerID: user.String()}, f.events.changes[0])
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	f := newFixture()
	visit := time.Date(2026, 6, 1, 19, 30, 0, 0, time.UTC)

	_, err := f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{UserID: uuid.New(), VisitTime: visit})
	assert.ErrorIs(t, err, orderpkg.ErrEmptyCart)

	_, err = f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{
		UserID: uuid.New(), VisitTime: visit, Lines: []orderpkg.Line{{MenuItemID: uuid.New(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, orderpkg.ErrInvalidLine)

	_, err = f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{
		UserID: uuid.New(), Lines: sampleLines(), VisitTime: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, orderpkg.ErrOutsideHours)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrderStaleMenuClearsCartAndReleasesKey(t *testing.T) {
	f := newFixture()
	f.repo.createErr = orderpkg.ErrStaleMenu
	user := uuid.New()

	_, err := f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{
		UserID: user, Lines: sampleLines(), VisitTime: time.Date(2026, 6, 2, 13, 0, 0, 0, time.UTC), IdempotencyKey: "k1",
	})
	require.ErrorIs(t, err, orderpkg.ErrStaleMenu)
	assert.Contains(t, err.Error(), "Gourmet Selection Update")
	assert.Equal(t, []uuid.UUID{user}, f.cart.cleared)
	assert.Equal(t, []string{user.String() + ":k1"}, f.guard.released)
	assert.Empty(t, f.events.changes)
}

func TestCreateOrderIdempotencyKeyBlocksReplay(t *testing.T) {
	f := newFixture()
	req := orderpkg.CreateOrderRequest{
		UserID: uuid.New(), Lines: sampleLines(), VisitTime: time.Date(2026, 6, 2, 13, 0, 0, 0, time.UTC), IdempotencyKey: "same",
	}
	_, err := f.svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, orderpkg.ErrDuplicateRequest)
	assert.Len(t, f.repo.orders, 1)
}

func TestCreateOrderIdempotencyKeyIsPerUser(t *testing.T) {
	f := newFixture()
	visit := time.Date(2026, 6, 2, 13, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	_, err := f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{
		UserID: first, Lines: sampleLines(), VisitTime: visit, IdempotencyKey: "slot-13:00",
	})
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{
		UserID: second, Lines: sampleLines(), VisitTime: visit, IdempotencyKey: "slot-13:00",
	})
	require.NoError(t, err)
	assert.Len(t, f.repo.orders, 2)
	assert.True(t, f.guard.keys[first.String()+":slot-13:00"])
	assert.True(t, f.guard.keys[second.String()+":slot-13:00"])
}

// racingRepo changes the stored status right after the service has read it.
type racingRepo struct {
	*memRepo
	flipTo entity.OrderStatus
}

func (r *racingRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, err := r.memRepo.GetOrderByID(ctx, id)
	if err == nil && r.flipTo != "" {
		r.memRepo.orders[id].Status = r.flipTo
		r.flipTo = ""
	}
	return o, err
}

func TestStatusChangeLosesRaceAgainstCancel(t *testing.T) {
	f := newFixture()
	o := placeOrder(t, f, uuid.New(), f.now.Add(6*time.Hour))

	repo := &racingRepo{memRepo: f.repo, flipTo: entity.OrderCancelled}
	svc := NewOrderService(repo, nil, nil, nil, nil, orderpkg.DefaultPricing, orderpkg.DefaultPolicy, zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), o.ID, entity.OrderApproved)
	assert.ErrorIs(t, err, orderpkg.ErrInvalidTransition)
	assert.Equal(t, entity.OrderCancelled, f.repo.orders[o.ID].Status)
}

func placeOrder(t *testing.T, f *fixture, user uuid.UUID, visit time.Time) *entity.Order {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), orderpkg.CreateOrderRequest{UserID: user, Lines: sampleLines(), VisitTime: visit})
	require.NoError(t, err)
	return o
}

func TestCancelRespectsWindowAndOwnership(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	o := placeOrder(t, f, user, f.now.Add(2*time.Hour+30*time.Minute))

	_, err := f.svc.Cancel(context.Background(), o.ID, user)
	require.ErrorIs(t, err, orderpkg.ErrCancellationWindow)
	assert.Equal(t, "Orders can only be cancelled at least 3 hours before the scheduled arrival.", err.Error())

	_, err = f.svc.Cancel(context.Background(), uuid.New(), user)
	assert.ErrorIs(t, err, orderpkg.ErrNotFound)

	later := placeOrder(t, f, user, f.now.Add(6*time.Hour))
	_, err = f.svc.Cancel(context.Background(), later.ID, uuid.New())
	assert.ErrorIs(t, err, orderpkg.ErrNotFound)

	cancelled, err := f.svc.Cancel(context.Background(), later.ID, user)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	last := f.events.changes[len(f.events.changes)-1]
	assert.Equal(t, realtime.ChangeUpdate, last.Type)
	assert.Equal(t, user.String(), last.OwnerID)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	f := newFixture()
	o := placeOrder(t, f, uuid.New(), f.now.Add(5*time.Hour))

	_, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderCompleted)
	assert.ErrorIs(t, err, orderpkg.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderCancelled)
	assert.ErrorIs(t, err, orderpkg.ErrInvalidTransition)

	approved, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderApproved, approved.Status)

	done, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCompleted, done.Status)
	assert.Equal(t, entity.PaymentFullyPaid, done.PaymentStatus)
	assert.True(t, done.PaidAmount.Equal(done.TotalAmount))
	assert.True(t, done.Balance().IsZero())

	_, err = f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderRejected)
	assert.ErrorIs(t, err, orderpkg.ErrInvalidTransition)
}

func TestGetOrderScopesToOwnerUnlessAdmin(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	o := placeOrder(t, f, owner, f.now.Add(5*time.Hour))

	_, err := f.svc.GetOrder(context.Background(), o.ID, uuid.New(), false)
	assert.ErrorIs(t, err, orderpkg.ErrNotFound)

	got, err := f.svc.GetOrder(context.Background(), o.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	mine, err := f.svc.ListUserOrders(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
