package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recipefy/genai/config"
	"github.com/recipefy/genai/internal/middleware"
	"github.com/recipefy/genai/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Recipefy GenAI API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, chatService service.ChatServiceInterface, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	validator := middleware.NewJWTValidator(cfg.JWTSecret)

	// Chat gets a per-user limiter; redis being down disables limiting, not
	// the API.
	var chatLimiter *middleware.RateLimiter
	if redisClient != nil {
		chatLimiter = middleware.NewChatRateLimiter(redisClient)
	} else {
		logger.Warn("redis unavailable, chat rate limiting disabled")
	}

	chatHandler := NewChatHandler(chatService, validator, chatLimiter)
	vectorHandler := NewVectorHandler(chatService, validator, logger)

	v1 := router.Group("/api/v1")
	chatHandler.RegisterRoutes(v1)
	vectorHandler.RegisterRoutes(v1)
}
