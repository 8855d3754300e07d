package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	adminrepo "github.com/digifood/restaurant-backend/admin/repository"
	adminsvc "github.com/digifood/restaurant-backend/admin/service"
	authpkg "github.com/digifood/restaurant-backend/auth"
	authrepo "github.com/digifood/restaurant-backend/auth/repository"
	authsvc "github.com/digifood/restaurant-backend/auth/service"
	"github.com/digifood/restaurant-backend/availability"
	"github.com/digifood/restaurant-backend/cart"
	"github.com/digifood/restaurant-backend/config"
	customerrepo "github.com/digifood/restaurant-backend/customer/repository"
	customersvc "github.com/digifood/restaurant-backend/customer/service"
	"github.com/digifood/restaurant-backend/database"
	api "github.com/digifood/restaurant-backend/handler"
	"github.com/digifood/restaurant-backend/invoice"
	menupkg "github.com/digifood/restaurant-backend/menu"
	menurepo "github.com/digifood/restaurant-backend/menu/repository"
	menusvc "github.com/digifood/restaurant-backend/menu/service"
	"github.com/digifood/restaurant-backend/middleware"
	orderpkg "github.com/digifood/restaurant-backend/order"
	orderrepo "github.com/digifood/restaurant-backend/order/repository"
	ordersvc "github.com/digifood/restaurant-backend/order/service"
	"github.com/digifood/restaurant-backend/realtime"
)

// idempotencyTTL bounds how long a checkout key blocks replays.
const idempotencyTTL = 24 * time.Hour

type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *gorm.DB
	rdb    *redis.Client
	hub    *realtime.Hub
	writer *kafka.Writer
	relay  *realtime.Relay

	menu         menupkg.Service
	availability *availability.Service
	router       *gin.Engine
}

// openStorage connects PostgreSQL and, when configured, Redis.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("redis not configured, carts are kept in memory and checkout replays are not guarded")
		return db, nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return db, rdb, nil
}

// newIdentity picks the identity provider named in the auth config.
func newIdentity(ctx context.Context, cfg config.AuthConfig, repo authpkg.Repository) (authpkg.IdentityProvider, error) {
	switch cfg.Provider {
	case "", "local":
		return authpkg.NewLocalIdentity(repo), nil
	case "firebase":
		client, err := authpkg.InitFirebaseAuth(ctx, cfg.FirebaseCredentials)
		if err != nil {
			return nil, fmt.Errorf("failed to init firebase auth: %w", err)
		}
		return authpkg.NewFirebaseIdentity(client, cfg.FirebaseAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// buildApp wires repositories, services and handlers.
func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	loc, err := cfg.Restaurant.Location()
	if err != nil {
		return nil, err
	}
	db, rdb, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, db: db, rdb: rdb, hub: realtime.NewHub(log)}

	var events realtime.Publisher = a.hub
	if len(cfg.Kafka.Brokers) > 0 {
		a.writer = realtime.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.relay = realtime.NewRelay(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, a.hub, log)
		events = realtime.NewKafkaPublisher(a.writer)
	}

	pricing := orderpkg.Pricing{
		DepositRate:  decimal.NewFromFloat(cfg.Restaurant.DepositRate),
		DiscountRate: decimal.NewFromFloat(cfg.Restaurant.DiscountRate),
	}
	policy := orderpkg.Policy{
		OpenHour:           cfg.Restaurant.OpenHour,
		CloseHour:          cfg.Restaurant.CloseHour,
		CancellationWindow: cfg.Restaurant.CancellationWindow,
		Location:           loc,
	}
	limits := availability.Limits{Daily: cfg.Restaurant.DailyCap, PerLine: cfg.Restaurant.LineCap}

	a.menu = menusvc.NewMenuService(menurepo.NewGormMenuRepo(db), events, log)
	orderRepo := orderrepo.NewGormOrderRepo(db)
	a.availability = availability.NewService(orderRepo, limits, loc, log)

	var store cart.Store = cart.NewMemoryStore()
	var guard orderpkg.IdempotencyGuard
	if rdb != nil {
		store = cart.NewRedisStore(rdb, cfg.Redis.CartTTL)
		guard = orderrepo.NewRedisIdempotencyGuard(rdb, idempotencyTTL)
	}
	carts := cart.NewService(store, a.menu, a.availability, limits, pricing, log)

	authRepo := authrepo.NewGormAuthRepo(db)
	identity, err := newIdentity(ctx, cfg.Auth, authRepo)
	if err != nil {
		a.close()
		return nil, err
	}
	orders := ordersvc.NewOrderService(orderRepo, authRepo, carts, guard, events, pricing, policy, log)
	auth := authsvc.NewAuthService(authRepo, identity, carts, authsvc.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		AdminUsername: cfg.Admin.Username,
		AdminPassword: cfg.Admin.Password,
	}, log)
	customers := customersvc.NewCustomerService(customerrepo.NewGormCustomerRepo(db), identity, log)
	admin := adminsvc.NewAdminService(adminrepo.NewGormAdminRepo(db), orders, a.menu, a.availability)

	inv := invoice.DefaultOptions
	if cfg.Restaurant.Name != "" {
		inv.Brand = cfg.Restaurant.Name
	}

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.PerSecond > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}
	a.router = api.NewRouter(api.Handlers{
		Auth:   api.NewAuthHandler(auth, customers),
		Menu:   api.NewMenuHandler(a.menu, a.availability),
		Cart:   api.NewCartHandler(carts),
		Order:  api.NewOrderHandler(orders, carts, inv, loc),
		Status: api.NewOrderStatusHandler(orders),
		Admin:  api.NewAdminHandler(admin),
		WS:     api.NewWSHandler(a.hub),
	}, api.RouterOptions{
		JWTSecret:      cfg.Auth.JWTSecret,
		RequestTimeout: cfg.Server.RequestTimeout,
		Limiter:        limiter,
		Log:            log,
	})
	return a, nil
}

func (a *app) close() {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close kafka writer")
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
