package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/anteroom/core"
	"github.com/layer-3/anteroom/service"
)

// AccountHandlers contains HTTP handlers for the account endpoints
type AccountHandlers struct {
	authService *service.AuthService
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(authService *service.AuthService) *AccountHandlers {
	return &AccountHandlers{
		authService: authService,
	}
}

// PrepareNonce handles the nonce request
func (h *AccountHandlers) PrepareNonce(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	nonce, err := h.authService.PrepareNonce(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to prepare nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Authenticate handles the signature verification request
func (h *AccountHandlers) Authenticate(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Session   string `json:"session" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	token, name, err := h.authService.Authenticate(c.Request.Context(), req.Address, req.Signature, req.Session)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrSignatureVerification):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Signature verification failed"})
		case errors.Is(err, core.ErrInvalidAddress):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid address"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Authentication failed"})
		}
		return
	}

	resp := gin.H{"token": token}
	if name != "" {
		resp["name"] = name
	}

	c.JSON(http.StatusOK, resp)
}

// Login handles the login request for a registered address
func (h *AccountHandlers) Login(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		return
	}

	if err := h.authService.Login(c.Request.Context(), session); err != nil {
		if errors.Is(err, core.ErrRequireRegister) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Require register"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.Status(http.StatusOK)
}

// Register handles the display name registration request
func (h *AccountHandlers) Register(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if err := h.authService.Register(c.Request.Context(), session, req.Name); err != nil {
		if errors.Is(err, core.ErrAccountExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Registration failed"})
			return
		}
		if errors.Is(err, core.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.Status(http.StatusOK)
}

// sessionFromContext returns the session stored by the auth middleware,
// writing the error response itself when it is missing.
func sessionFromContext(c *gin.Context) *core.Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Session not found in context"})
		return nil
	}

	session, ok := value.(*core.Session)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Session not found in context"})
		return nil
	}

	return session
}
