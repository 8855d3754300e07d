package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/digifood/restaurant-backend/entity"
	menupkg "github.com/digifood/restaurant-backend/menu"
	"github.com/digifood/restaurant-backend/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type menuService struct {
	repo   menupkg.Repository
	events realtime.Publisher
	log    zerolog.Logger
}

// NewMenuService constructs a menu Service. events may be nil.
func NewMenuService(repo menupkg.Repository, events realtime.Publisher, log zerolog.Logger) menupkg.Service {
	return &menuService{repo: repo, events: events, log: log.With().Str("component", "menu_service").Logger()}
}

func (s *menuService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *menuService) ListMenu(ctx context.Context) ([]entity.MenuItem, error) {
	list, err := s.repo.ListMenuItems(ctx, true)
	if err != nil {
		return nil, err
	}
	return uniqueByName(list), nil
}

func (s *menuService) ListAllItems(ctx context.Context) ([]entity.MenuItem, error) {
	list, err := s.repo.ListMenuItems(ctx, false)
	if err != nil {
		return nil, err
	}
	return uniqueByName(list), nil
}

func (s *menuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	return s.repo.GetMenuItemByID(ctx, id)
}

func (s *menuService) CreateMenuItem(ctx context.Context, in menupkg.MenuItemInput) (*entity.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == uuid.Nil || in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: name, category and a non-negative price are required", menupkg.ErrInvalid)
	}
	m := &entity.MenuItem{
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable,
	}
	created, err := s.repo.CreateMenuItem(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("failed to create menu item")
		return nil, err
	}
	s.log.Info().Str("menu_item_id", created.ID.String()).Str("name", created.Name).Msg("menu item created")
	s.publish(ctx, realtime.TableMenuItems, realtime.ChangeInsert, created.ID)
	return created, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, p menupkg.MenuItemPatch) (*entity.MenuItem, error) {
	updates := map[string]any{}
	if p.CategoryID != nil {
		updates["category_id"] = *p.CategoryID
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", menupkg.ErrInvalid)
		}
		updates["name"] = name
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price cannot be negative", menupkg.ErrInvalid)
		}
		updates["price"] = *p.Price
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if p.IsAvailable != nil {
		updates["is_available"] = *p.IsAvailable
	}
	if len(updates) == 0 {
		return s.repo.GetMenuItemByID(ctx, id)
	}
	updated, err := s.repo.UpdateMenuItem(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("menu_item_id", id.String()).Int("fields", len(updates)).Msg("menu item updated")
	s.publish(ctx, realtime.TableMenuItems, realtime.ChangeUpdate, id)
	return updated, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMenuItem(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("menu_item_id", id.String()).Msg("menu item delete failed")
		return err
	}
	s.log.Info().Str("menu_item_id", id.String()).Msg("menu item deleted")
	s.publish(ctx, realtime.TableMenuItems, realtime.ChangeDelete, id)
	return nil
}

func (s *menuService) CreateCategory(ctx context.Context, in menupkg.CategoryInput) (*entity.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	c := &entity.Category{
		Name:         strings.TrimSpace(in.Name),
		Slug:         strings.TrimSpace(in.Slug),
		ImageURL:     in.ImageURL,
		DisplayOrder: in.DisplayOrder,
	}
	created, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.TableCategories, realtime.ChangeInsert, created.ID)
	return created, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, id uuid.UUID, in menupkg.CategoryInput) (*entity.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateCategory(ctx, id, map[string]any{
		"name":          strings.TrimSpace(in.Name),
		"slug":          strings.TrimSpace(in.Slug),
		"image_url":     in.ImageURL,
		"display_order": in.DisplayOrder,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.TableCategories, realtime.ChangeUpdate, id)
	return updated, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, realtime.TableCategories, realtime.ChangeDelete, id)
	return nil
}

func (s *menuService) ExistingItemIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	return s.repo.ExistingMenuItemIDs(ctx, ids)
}

func (s *menuService) Seed(ctx context.Context) error {
	cats, items := HouseCatalog()
	if err := s.repo.ReplaceCatalog(ctx, cats, items); err != nil {
		s.log.Error().Err(err).Msg("seed failed")
		return fmt.Errorf("seed failed: %w", err)
	}
	s.log.Info().Int("categories", len(cats)).Int("items", len(items)).Msg("menu seeded")
	s.publish(ctx, realtime.TableMenuItems, realtime.ChangeInsert, uuid.Nil)
	return nil
}

func (s *menuService) publish(ctx context.Context, table string, typ realtime.ChangeType, id uuid.UUID) {
	if s.events == nil {
		return
	}
	c := realtime.Change{Table: table, Type: typ, RecordID: id.String()}
	if err := s.events.Publish(ctx, c); err != nil {
		s.log.Warn().Err(err).Str("table", table).Msg("failed to publish change")
	}
}

func validateCategory(in menupkg.CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return fmt.Errorf("%w: category name and slug are required", menupkg.ErrInvalid)
	}
	return nil
}

// uniqueByName keeps the first dish seen for each name.
func uniqueByName(list []entity.MenuItem) []entity.MenuItem {
	seen := make(map[string]struct{}, len(list))
	out := make([]entity.MenuItem, 0, len(list))
	for _, m := range list {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		out = append(out, m)
	}
	return out
}
