package api

import (
	"context"
	"net/http"

	"github.com/digifood/restaurant-backend/availability"
	menupkg "github.com/digifood/restaurant-backend/menu"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailabilityReader is the slice of availability.Service the API needs.
type AvailabilityReader interface {
	DailyCounts(ctx context.Context) (map[uuid.UUID]int, error)
	Limits() availability.Limits
}

type MenuHandler struct {
	service menupkg.Service
	avail   AvailabilityReader
}

func NewMenuHandler(svc menupkg.Service, avail AvailabilityReader) *MenuHandler {
	return &MenuHandler{service: svc, avail: avail}
}

func (h *MenuHandler) ListCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		list, err := h.service.ListCategories(ctx)
		if err != nil {
			writeError(c, err, "failed to load categories")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ListMenu returns available dishes, optionally filtered by ?category=<id>.
func (h *MenuHandler) ListMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		list, err := h.service.ListMenu(ctx)
		if err != nil {
			writeError(c, err, "failed to load menu")
			return
		}
		if raw := c.Query("category"); raw != "" {
			catID, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
			filtered := list[:0]
			for _, m := range list {
				if m.CategoryID == catID {
					filtered = append(filtered, m)
				}
			}
			list = filtered
		}
		c.JSON(http.StatusOK, list)
	}
}

// Availability reports today's committed portions per dish and the caps.
func (h *MenuHandler) Availability() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		counts, err := h.avail.DailyCounts(ctx)
		if err != nil {
			writeError(c, err, "failed to load availability")
			return
		}
		limits := h.avail.Limits()
		c.JSON(http.StatusOK, gin.H{
			"availability": counts,
			"daily_cap":    limits.Daily,
			"line_cap":     limits.PerLine,
		})
	}
}

type menuItemPayload struct {
	CategoryID  string          `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

func (h *MenuHandler) CreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p menuItemPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		catID, err := uuid.Parse(p.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		available := true
		if p.IsAvailable != nil {
			available = *p.IsAvailable
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		created, err := h.service.CreateMenuItem(ctx, menupkg.MenuItemInput{
			CategoryID:  catID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			IsAvailable: available,
		})
		if err != nil {
			writeError(c, err, "failed to create menu item")
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

type menuItemPatchPayload struct {
	CategoryID  *string          `json:"category_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}

// UpdateMenuItem applies a partial update; toggling is_available is the common case.
func (h *MenuHandler) UpdateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var p menuItemPatchPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		patch := menupkg.MenuItemPatch{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			IsAvailable: p.IsAvailable,
		}
		if p.CategoryID != nil {
			catID, err := uuid.Parse(*p.CategoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
				return
			}
			patch.CategoryID = &catID
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		updated, err := h.service.UpdateMenuItem(ctx, id, patch)
		if err != nil {
			writeError(c, err, "failed to update menu item")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (h *MenuHandler) DeleteMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.service.DeleteMenuItem(ctx, id); err != nil {
			writeError(c, err, "failed to delete menu item")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type categoryPayload struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug" binding:"required"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

func (p categoryPayload) input() menupkg.CategoryInput {
	return menupkg.CategoryInput{Name: p.Name, Slug: p.Slug, ImageURL: p.ImageURL, DisplayOrder: p.DisplayOrder}
}

func (h *MenuHandler) CreateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p categoryPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		created, err := h.service.CreateCategory(ctx, p.input())
		if err != nil {
			writeError(c, err, "failed to create category")
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func (h *MenuHandler) UpdateCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var p categoryPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		updated, err := h.service.UpdateCategory(ctx, id, p.input())
		if err != nil {
			writeError(c, err, "failed to update category")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func (h *MenuHandler) DeleteCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.service.DeleteCategory(ctx, id); err != nil {
			writeError(c, err, "failed to delete category")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
