package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recipefy/genai/config"
	"github.com/recipefy/genai/internal/api"
	"github.com/recipefy/genai/internal/middleware"
	"github.com/recipefy/genai/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	chatService service.ChatServiceInterface,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	api.RegisterRoutes(router, chatService, redisClient, cfg, logger)

	return router
}
