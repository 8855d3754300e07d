package api

import (
	"net/http"

	adminpkg "github.com/digifood/restaurant-backend/admin"
	"github.com/gin-gonic/gin"
)

// AdminHandler bundles dependencies for admin-related HTTP handlers.
type AdminHandler struct {
	service adminpkg.AdminService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc adminpkg.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Dashboard returns orders with their lines, the deduplicated menu and categories.
func (h *AdminHandler) Dashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		d, err := h.service.Dashboard(ctx)
		if err != nil {
			writeError(c, err, "failed to load dashboard")
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
