package api

import (
	"net/http"

	authpkg "github.com/digifood/restaurant-backend/auth"
	customerpkg "github.com/digifood/restaurant-backend/customer"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service   authpkg.Service
	customers customerpkg.CustomerService
}

func NewAuthHandler(svc authpkg.Service, customers customerpkg.CustomerService) *AuthHandler {
	return &AuthHandler{service: svc, customers: customers}
}

type signupPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// Signup registers a guest and signs them straight in.
func (h *AuthHandler) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p signupPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		profile, err := h.customers.RegisterCustomer(ctx, customerpkg.RegisterCustomerRequest{
			Email:    p.Email,
			Password: p.Password,
			FullName: p.FullName,
		})
		if err != nil {
			writeError(c, err, "failed to register")
			return
		}
		principal, err := h.service.Login(ctx, authpkg.LoginRequest{Email: p.Email, Password: p.Password})
		if err != nil {
			c.JSON(http.StatusCreated, gin.H{"profile": profile})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"profile": profile, "principal": principal})
	}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p loginPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		principal, err := h.service.Login(ctx, authpkg.LoginRequest{Email: p.Email, Password: p.Password})
		if err != nil {
			writeError(c, err, "login failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal": principal})
	}
}

type adminLoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) AdminLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p adminLoginPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		principal, err := h.service.AdminLogin(ctx, authpkg.AdminLoginRequest{Username: p.Username, Password: p.Password})
		if err != nil {
			writeError(c, err, "admin login failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal": principal})
	}
}

// Logout drops the guest's cart. Tokens are stateless and simply expire.
func (h *AuthHandler) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUser(c)
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()
		if err := h.service.Logout(ctx, uid); err != nil {
			writeError(c, err, "logout failed")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
