package api

import (
	"net/http"
	"time"

	authpkg "github.com/digifood/restaurant-backend/auth"
	"github.com/digifood/restaurant-backend/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Auth   *AuthHandler
	Menu   *MenuHandler
	Cart   *CartHandler
	Order  *OrderHandler
	Status *OrderStatusHandler
	Admin  *AdminHandler
	WS     *WSHandler
}

type RouterOptions struct {
	JWTSecret      string
	RequestTimeout time.Duration
	Limiter        *middleware.IPRateLimiter
	Log            zerolog.Logger
}

// NewRouter mounts every route on a fresh engine.
func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Log), middleware.RequestTimeout(opts.RequestTimeout))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authed := middleware.RequireAuth(opts.JWTSecret)
	adminOnly := middleware.RequireRoles(authpkg.RoleAdmin)
	limited := func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		limited = opts.Limiter.Middleware()
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/signup", limited, h.Auth.Signup())
		v1.POST("/auth/login", limited, h.Auth.Login())
		v1.POST("/auth/logout", limited, authed, h.Auth.Logout())
		v1.POST("/admin/login", limited, h.Auth.AdminLogin())

		v1.GET("/categories", h.Menu.ListCategories())
		v1.GET("/menu", h.Menu.ListMenu())
		v1.GET("/availability", h.Menu.Availability())
		v1.POST("/visit-time/validate", h.Order.ValidateVisitTime())
	}

	cart := v1.Group("/cart", authed)
	{
		cart.GET("", h.Cart.Get())
		cart.POST("/items", h.Cart.Add())
		cart.PATCH("/items/:id", h.Cart.ChangeQuantity())
		cart.DELETE("/items/:id", h.Cart.Remove())
		cart.DELETE("", h.Cart.Clear())
	}

	orders := v1.Group("/orders", authed)
	{
		orders.POST("", h.Order.CreateOrder())
		orders.GET("", h.Order.ListOrders())
		orders.GET("/:id", h.Order.GetOrder())
		orders.POST("/:id/cancel", h.Order.CancelOrder())
		orders.GET("/:id/invoice", h.Order.Invoice())
	}

	admin := v1.Group("/admin", authed, adminOnly)
	{
		admin.GET("/dashboard", h.Admin.Dashboard())
		admin.POST("/orders/:id/approve", h.Status.Approve())
		admin.POST("/orders/:id/reject", h.Status.Reject())
		admin.POST("/orders/:id/complete", h.Status.Complete())

		admin.POST("/menu-items", h.Menu.CreateMenuItem())
		admin.PATCH("/menu-items/:id", h.Menu.UpdateMenuItem())
		admin.DELETE("/menu-items/:id", h.Menu.DeleteMenuItem())

		admin.POST("/categories", h.Menu.CreateCategory())
		admin.PATCH("/categories/:id", h.Menu.UpdateCategory())
		admin.DELETE("/categories/:id", h.Menu.DeleteCategory())
	}

	ws := r.Group("/ws")
	{
		ws.GET("/menu", h.WS.MenuSocket())
		ws.GET("/admin", authed, adminOnly, h.WS.AdminSocket())
		ws.GET("/orders", authed, h.WS.OrdersSocket())
	}
	return r
}
