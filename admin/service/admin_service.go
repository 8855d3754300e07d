package service

import (
	"context"
	"fmt"

	adminpkg "github.com/digifood/restaurant-backend/admin"
	"github.com/digifood/restaurant-backend/entity"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type OrderLister interface {
	ListAll(ctx context.Context) ([]entity.Order, error)
}

type MenuLister interface {
	ListAllItems(ctx context.Context) ([]entity.MenuItem, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
}

type DailyCounter interface {
	DailyCounts(ctx context.Context) (map[uuid.UUID]int, error)
}

// adminService implements AdminService.
type adminService struct {
	repo    adminpkg.AdminRepository
	orders  OrderLister
	menu    MenuLister
	counter DailyCounter
}

// NewAdminService constructs an AdminService backed by the provided repository.
func NewAdminService(repo adminpkg.AdminRepository, orders OrderLister, menu MenuLister, counter DailyCounter) adminpkg.AdminService {
	return &adminService{repo: repo, orders: orders, menu: menu, counter: counter}
}

// Dashboard loads orders, menu, categories and tallies concurrently.
func (s *adminService) Dashboard(ctx context.Context) (*adminpkg.Dashboard, error) {
	d := &adminpkg.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Orders, err = s.orders.ListAll(gctx)
		return wrap("orders", err)
	})
	g.Go(func() (err error) {
		d.MenuItems, err = s.menu.ListAllItems(gctx)
		return wrap("menu items", err)
	})
	g.Go(func() (err error) {
		d.Categories, err = s.menu.ListCategories(gctx)
		return wrap("categories", err)
	})
	g.Go(func() (err error) {
		d.Tallies, err = s.repo.TallyByStatus(gctx)
		return wrap("tallies", err)
	})
	g.Go(func() (err error) {
		d.OrderedToday, err = s.counter.DailyCounts(gctx)
		return wrap("daily counts", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.Orders == nil {
		d.Orders = []entity.Order{}
	}
	return d, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}
