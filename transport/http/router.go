package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/anteroom/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.Default()

	handlers := NewAccountHandlers(authService)

	// Challenge/response routes, no authentication
	account := router.Group("/account")
	{
		account.POST("/nonce", handlers.PrepareNonce)
		account.POST("/auth", handlers.Authenticate)
	}

	// Post-auth routes, bearer token required
	protected := router.Group("/account")
	protected.Use(AuthMiddleware(authService))
	{
		protected.POST("/login", handlers.Login)
		protected.POST("/register", handlers.Register)
	}

	return router
}
