package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authpkg "github.com/digifood/restaurant-backend/auth"
	"github.com/digifood/restaurant-backend/availability"
	"github.com/digifood/restaurant-backend/cart"
	menupkg "github.com/digifood/restaurant-backend/menu"
	"github.com/digifood/restaurant-backend/middleware"
	orderpkg "github.com/digifood/restaurant-backend/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultRequestTimeout applies when the router was built without one.
const defaultRequestTimeout = 10 * time.Second

// requestContext bounds the handler's work by the router's request timeout.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	d := c.GetDuration(middleware.CtxTimeout)
	if d <= 0 {
		d = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), d)
}

var errorStatus = []struct {
	err    error
	status int
}{
	{orderpkg.ErrNotFound, http.StatusNotFound},
	{menupkg.ErrNotFound, http.StatusNotFound},
	{menupkg.ErrCategoryGone, http.StatusNotFound},
	{cart.ErrNotInCart, http.StatusNotFound},

	{orderpkg.ErrStaleMenu, http.StatusConflict},
	{orderpkg.ErrDuplicateRequest, http.StatusConflict},
	{orderpkg.ErrInvalidTransition, http.StatusConflict},
	{menupkg.ErrInUse, http.StatusConflict},
	{menupkg.ErrDuplicate, http.StatusConflict},
	{authpkg.ErrEmailTaken, http.StatusConflict},

	{availability.ErrSoldOut, http.StatusUnprocessableEntity},
	{availability.ErrLineLimit, http.StatusUnprocessableEntity},
	{cart.ErrDishUnavailable, http.StatusUnprocessableEntity},
	{orderpkg.ErrCancellationWindow, http.StatusUnprocessableEntity},
	{orderpkg.ErrOutsideHours, http.StatusUnprocessableEntity},
	{orderpkg.ErrPastVisit, http.StatusUnprocessableEntity},

	{orderpkg.ErrEmptyCart, http.StatusBadRequest},
	{orderpkg.ErrInvalidLine, http.StatusBadRequest},
	{menupkg.ErrInvalid, http.StatusBadRequest},
	{authpkg.ErrWeakPassword, http.StatusBadRequest},
	{authpkg.ErrInvalidEmail, http.StatusBadRequest},

	{authpkg.ErrInvalidCredentials, http.StatusUnauthorized},
	{authpkg.ErrAdminDisabled, http.StatusServiceUnavailable},
}

// writeError maps domain errors to their status; anything unknown is a 500
// reported under fallback.
func writeError(c *gin.Context, err error, fallback string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			body := gin.H{"error": err.Error()}
			if errors.Is(err, orderpkg.ErrStaleMenu) {
				body["code"] = "stale_menu"
			}
			c.JSON(e.status, body)
			return
		}
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "detail": err.Error()})
}

// currentUser reads the authenticated user id placed by RequireAuth.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to place an order."})
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool { return c.GetString(middleware.CtxRole) == authpkg.RoleAdmin }

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
