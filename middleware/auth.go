package middleware

import (
	"net/http"
	"strings"

	authpkg "github.com/digifood/restaurant-backend/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth and RequestTimeout.
const (
	CtxUserID  = "user_id"
	CtxRole    = "role"
	CtxEmail   = "email"
	CtxTimeout = "request_timeout"
)

// RequireAuth validates a Bearer JWT, places claims into context and continues.
// Websocket clients that cannot set headers may pass the token as ?token=.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to place an order."})
			return
		}

		claims, err := authpkg.ParseAndValidate(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		if claims.Email != "" {
			c.Set(CtxEmail, claims.Email)
		}
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") && len(h) > len("Bearer ") {
		return h[len("Bearer "):]
	}
	return c.Query("token")
}

// RequireRoles ensures the authenticated principal has one of the allowed roles.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	roleSet := map[string]struct{}{}
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := roleSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}
