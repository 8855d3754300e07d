package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/digifood/restaurant-backend/invoice"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartLines supplies the checkout lines for a user.
type CartLines interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]orderpkg.Line, error)
}

type OrderHandler struct {
	service orderpkg.Service
	cart    CartLines
	invoice invoice.Options
	loc     *time.Location
}

func NewOrderHandler(svc orderpkg.Service, cart CartLines, inv invoice.Options, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.Local
	}
	return &OrderHandler{service: svc, cart: cart, invoice: inv, loc: loc}
}

// visitPayload accepts either an RFC 3339 timestamp or a local date and time.
type visitPayload struct {
	VisitTime string `json:"visit_time"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

var errVisitMissing = errors.New("visit_time, or date and time, is required")

func (p visitPayload) parse(loc *time.Location) (time.Time, error) {
	if p.VisitTime != "" {
		return time.Parse(time.RFC3339, p.VisitTime)
	}
	if p.Date == "" || p.Time == "" {
		return time.Time{}, errVisitMissing
	}
	return time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(p.Date)+" "+strings.TrimSpace(p.Time), loc)
}

// CreateOrder checks out the caller's cart.
func (h *OrderHandler) CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		var p visitPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		visit, err := p.parse(h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visit time", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		lines, err := h.cart.Lines(ctx, uid)
		if err != nil {
			writeError(c, err, "failed to load cart")
			return
		}
		created, err := h.service.CreateOrder(ctx, orderpkg.CreateOrderRequest{
			UserID:         uid,
			Lines:          lines,
			VisitTime:      visit,
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			writeError(c, err, "failed to create order")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": created, "order_id": created.ID})
	}
}

func (h *OrderHandler) ListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		list, err := h.service.ListUserOrders(ctx, uid)
		if err != nil {
			writeError(c, err, "failed to load orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func (h *OrderHandler) GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		oid, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		o, err := h.service.GetOrder(ctx, oid, uid, isAdmin(c))
		if err != nil {
			writeError(c, err, "failed to load order")
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "balance": o.Balance()})
	}
}

func (h *OrderHandler) CancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		oid, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		o, err := h.service.Cancel(ctx, oid, uid)
		if err != nil {
			writeError(c, err, "failed to cancel order")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
	}
}

// Invoice streams the order's PDF receipt.
func (h *OrderHandler) Invoice() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		oid, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		o, err := h.service.GetOrder(ctx, oid, uid, isAdmin(c))
		if err != nil {
			writeError(c, err, "failed to load order")
			return
		}
		opts := h.invoice
		opts.Location = h.loc
		pdf, err := invoice.Generate(o, opts)
		if err != nil {
			writeError(c, err, "failed to render invoice")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+invoice.FileName(o)+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// ValidateVisitTime lets the client check a slot before checkout.
func (h *OrderHandler) ValidateVisitTime() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p visitPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		visit, err := p.parse(h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visit time", "detail": err.Error()})
			return
		}
		if err := h.service.ValidateVisitTime(visit); err != nil {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true})
	}
}
