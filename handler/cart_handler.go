package api

import (
	"context"
	"net/http"

	"github.com/digifood/restaurant-backend/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartService is the cart API consumed by the handlers.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.View, error)
	Add(ctx context.Context, userID, menuItemID uuid.UUID) (*cart.View, error)
	ChangeQuantity(ctx context.Context, userID, menuItemID uuid.UUID, delta int) (*cart.View, error)
	Remove(ctx context.Context, userID, menuItemID uuid.UUID) (*cart.View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(svc CartService) *CartHandler { return &CartHandler{service: svc} }

func (h *CartHandler) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.service.Get(ctx, uid)
		if err != nil {
			writeError(c, err, "failed to load cart")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

type addItemPayload struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

func (h *CartHandler) Add() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		var p addItemPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		itemID, err := uuid.Parse(p.MenuItemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu_item_id"})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.service.Add(ctx, uid, itemID)
		if err != nil {
			writeError(c, err, "failed to add to cart")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

type quantityPayload struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *CartHandler) ChangeQuantity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var p quantityPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.service.ChangeQuantity(ctx, uid, itemID, p.Delta)
		if err != nil {
			writeError(c, err, "failed to update cart")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func (h *CartHandler) Remove() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		itemID, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		v, err := h.service.Remove(ctx, uid, itemID)
		if err != nil {
			writeError(c, err, "failed to update cart")
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func (h *CartHandler) Clear() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.service.Clear(ctx, uid); err != nil {
			writeError(c, err, "failed to clear cart")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
