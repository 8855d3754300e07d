package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digifood/restaurant-backend/entity"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/digifood/restaurant-backend/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type orderService struct {
	repo     orderpkg.Repository
	profiles orderpkg.ProfileReader
	cart     orderpkg.CartClearer
	guard    orderpkg.IdempotencyGuard
	events   realtime.Publisher
	pricing  orderpkg.Pricing
	policy   orderpkg.Policy
	now      func() time.Time
	log      zerolog.Logger
}

// NewOrderService wires the order workflow. cart, guard and events may be nil.
func NewOrderService(
	repo orderpkg.Repository,
	profiles orderpkg.ProfileReader,
	cart orderpkg.CartClearer,
	guard orderpkg.IdempotencyGuard,
	events realtime.Publisher,
	pricing orderpkg.Pricing,
	policy orderpkg.Policy,
	log zerolog.Logger,
) orderpkg.Service {
	return &orderService{
		repo:     repo,
		profiles: profiles,
		cart:     cart,
		guard:    guard,
		events:   events,
		pricing:  pricing,
		policy:   policy,
		now:      time.Now,
		log:      log.With().Str("component", "order_service").Logger(),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req orderpkg.CreateOrderRequest) (*entity.Order, error) {
	if len(req.Lines) == 0 {
		return nil, orderpkg.ErrEmptyCart
	}
	for _, l := range req.Lines {
		if l.MenuItemID == uuid.Nil || l.Quantity < 1 || l.Price.IsNegative() {
			return nil, orderpkg.ErrInvalidLine
		}
	}
	if err := s.policy.ValidateVisitTime(req.VisitTime, s.now()); err != nil {
		return nil, err
	}

	key := guardKey(req.UserID, req.IdempotencyKey)
	if key != "" && s.guard != nil {
		fresh, err := s.guard.Claim(ctx, key)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, orderpkg.ErrDuplicateRequest
		}
	}

	total, paid := s.pricing.Totals(req.Lines)
	o := &entity.Order{
		UserID:        req.UserID,
		TotalAmount:   total,
		PaidAmount:    paid,
		VisitTime:     req.VisitTime,
		Status:        entity.OrderPending,
		PaymentStatus: entity.PaymentPartiallyPaid,
		CustomerName:  s.customerName(ctx, req.UserID),
	}
	for _, l := range req.Lines {
		o.Items = append(o.Items, entity.OrderItem{
			MenuItemID:  l.MenuItemID,
			Quantity:    l.Quantity,
			PriceAtTime: l.Price,
		})
	}

	created, err := s.repo.CreateOrderWithItems(ctx, o)
	if err != nil {
		s.releaseKey(ctx, key)
		if errors.Is(err, orderpkg.ErrStaleMenu) {
			s.log.Warn().Str("user_id", req.UserID.String()).Msg("checkout referenced removed dishes; clearing cart")
			s.clearCart(ctx, req.UserID)
			return nil, err
		}
		s.log.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.clearCart(ctx, req.UserID)
	s.log.Info().
		Str("order_id", created.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("total", created.TotalAmount.String()).
		Int("lines", len(created.Items)).
		Msg("order placed")
	s.publish(ctx, realtime.ChangeInsert, created)
	return created, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	return s.repo.ListOrdersForUser(ctx, userID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, asAdmin bool) (*entity.Order, error) {
	if asAdmin {
		return s.repo.GetOrderByID(ctx, orderID)
	}
	return s.repo.GetOrderForUser(ctx, orderID, userID)
}

func (s *orderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error) {
	ord, err := s.repo.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanCancel(ord, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrderStatus(ctx, orderID, ord.Status, map[string]any{"status": entity.OrderCancelled}); err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", orderID.String()).Msg("order cancelled by guest")
	ord.Status = entity.OrderCancelled
	s.publish(ctx, realtime.ChangeUpdate, ord)
	return s.repo.GetOrderByID(ctx, orderID)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus entity.OrderStatus) (*entity.Order, error) {
	if newStatus == entity.OrderCancelled || !newStatus.Valid() {
		return nil, orderpkg.ErrInvalidTransition
	}
	ord, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !orderpkg.CanTransition(ord.Status, newStatus) {
		return nil, orderpkg.ErrInvalidTransition
	}
	updates := map[string]any{"status": newStatus}
	if newStatus == entity.OrderCompleted {
		updates["payment_status"] = entity.PaymentFullyPaid
		updates["paid_amount"] = ord.TotalAmount
	}
	if err := s.repo.UpdateOrderStatus(ctx, orderID, ord.Status, updates); err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", orderID.String()).Str("from", string(ord.Status)).Str("to", string(newStatus)).Msg("order status updated")
	s.publish(ctx, realtime.ChangeUpdate, ord)
	return s.repo.GetOrderByID(ctx, orderID)
}

func (s *orderService) ListAll(ctx context.Context) ([]entity.Order, error) {
	return s.repo.ListAllOrders(ctx)
}

func (s *orderService) ValidateVisitTime(visit time.Time) error {
	return s.policy.ValidateVisitTime(visit, s.now())
}

func (s *orderService) Quote(lines []orderpkg.Line) orderpkg.Quote {
	return s.pricing.Quote(lines)
}

func (s *orderService) customerName(ctx context.Context, userID uuid.UUID) string {
	if s.profiles == nil {
		return ""
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil || p == nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("profile lookup failed; order stored without a name")
		return ""
	}
	return p.DisplayName()
}

func (s *orderService) clearCart(ctx context.Context, userID uuid.UUID) {
	if s.cart == nil {
		return
	}
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
	}
}

// guardKey scopes a client key to its user so two guests never collide.
func guardKey(userID uuid.UUID, key string) string {
	if key == "" {
		return ""
	}
	return userID.String() + ":" + key
}

func (s *orderService) releaseKey(ctx context.Context, key string) {
	if key == "" || s.guard == nil {
		return
	}
	if err := s.guard.Release(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

func (s *orderService) publish(ctx context.Context, typ realtime.ChangeType, o *entity.Order) {
	if s.events == nil {
		return
	}
	c := realtime.Change{Table: realtime.TableOrders, Type: typ, RecordID: o.ID.String(), OwnerID: o.UserID.String()}
	if err := s.events.Publish(ctx, c); err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("failed to publish change")
	}
}
