// Package cart holds each guest's pending selection between browsing and
// checkout.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/digifood/restaurant-backend/availability"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/digifood/restaurant-backend/order"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrDishUnavailable = errors.New("this dish is not on the menu right now")
	ErrNotInCart       = errors.New("dish is not in your cart")
)

// Item is a cart line: a snapshot of the dish at the time it was added.
type Item struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
	Quantity   int             `json:"quantity"`
}

// View is what the guest sees after every cart operation.
type View struct {
	Items []Item      `json:"items"`
	Quote order.Quote `json:"quote"`
	// Removed counts lines dropped because their dish left the menu.
	Removed int `json:"removed,omitempty"`
	// LeftToday maps dish id to portions still orderable today.
	LeftToday map[uuid.UUID]int `json:"left_today"`
	Notice    string            `json:"notice,omitempty"`
}

// MenuReader is the slice of the menu service the cart needs.
type MenuReader interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	ExistingItemIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// Counter reports today's committed portions per dish.
type Counter interface {
	DailyCounts(ctx context.Context) (map[uuid.UUID]int, error)
}

type Service struct {
	store   Store
	menu    MenuReader
	counter Counter
	limits  availability.Limits
	pricing order.Pricing
	log     zerolog.Logger
}

func NewService(store Store, menu MenuReader, counter Counter, limits availability.Limits, pricing order.Pricing, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		menu:    menu,
		counter: counter,
		limits:  limits,
		pricing: pricing,
		log:     log.With().Str("component", "cart").Logger(),
	}
}

// Get returns the cart after pruning dishes that no longer exist.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	items, removed, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counter.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}
	v := s.view(items, counts)
	v.Removed = removed
	return v, nil
}

// Add puts one more portion of a dish into the cart.
func (s *Service) Add(ctx context.Context, userID, menuItemID uuid.UUID) (*View, error) {
	dish, err := s.menu.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !dish.IsAvailable {
		return nil, ErrDishUnavailable
	}
	items, removed, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.counter.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, menuItemID)
	inCart := 0
	if idx >= 0 {
		inCart = items[idx].Quantity
	}
	if err := s.limits.CanAdd(counts[menuItemID], inCart); err != nil {
		return nil, err
	}
	if idx >= 0 {
		items[idx].Quantity++
	} else {
		items = append(items, Item{
			MenuItemID: dish.ID,
			Name:       dish.Name,
			Price:      dish.Price,
			ImageURL:   dish.ImageURL,
			Quantity:   1,
		})
	}
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	v := s.view(items, counts)
	v.Removed = removed
	return v, nil
}

// ChangeQuantity adjusts a line by delta within the caps.
func (s *Service) ChangeQuantity(ctx context.Context, userID, menuItemID uuid.UUID, delta int) (*View, error) {
	items, removed, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, menuItemID)
	if idx < 0 {
		return nil, ErrNotInCart
	}
	counts, err := s.counter.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}
	next, err := s.limits.ChangeQuantity(counts[menuItemID], items[idx].Quantity, delta)
	if err != nil {
		return nil, err
	}
	items[idx].Quantity = next
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	v := s.view(items, counts)
	v.Removed = removed
	if delta > 0 && next == s.limits.PerLine {
		v.Notice = availability.ErrLineLimit.Error()
	}
	return v, nil
}

func (s *Service) Remove(ctx context.Context, userID, menuItemID uuid.UUID) (*View, error) {
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, menuItemID)
	if idx < 0 {
		return nil, ErrNotInCart
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := s.store.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, userID)
}

// Lines returns the pruned cart in checkout form.
func (s *Service) Lines(ctx context.Context, userID uuid.UUID) ([]order.Line, error) {
	items, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toLines(items), nil
}

// load reads the cart and drops lines whose dish was deleted.
func (s *Service) load(ctx context.Context, userID uuid.UUID) ([]Item, int, error) {
	items, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, 0, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	existing, err := s.menu.ExistingItemIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	kept := items[:0]
	for _, it := range items {
		if _, ok := existing[it.MenuItemID]; ok {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed > 0 {
		s.log.Info().Str("user_id", userID.String()).Int("removed", removed).Msg("pruned stale dishes from cart")
		if err := s.store.Save(ctx, userID, kept); err != nil {
			return nil, 0, fmt.Errorf("save cart: %w", err)
		}
	}
	return kept, removed, nil
}

func (s *Service) view(items []Item, counts map[uuid.UUID]int) *View {
	if items == nil {
		items = []Item{}
	}
	left := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		left[it.MenuItemID] = s.limits.Remaining(counts[it.MenuItemID])
	}
	return &View{Items: items, Quote: s.pricing.Quote(toLines(items)), LeftToday: left}
}

func toLines(items []Item) []order.Line {
	lines := make([]order.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, order.Line{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return lines
}

func indexOf(items []Item, id uuid.UUID) int {
	for i, it := range items {
		if it.MenuItemID == id {
			return i
		}
	}
	return -1
}
