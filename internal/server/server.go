package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/recipefy/genai/config"
	"github.com/recipefy/genai/internal/router"
	"github.com/recipefy/genai/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires the pipeline services and builds the server. Redis and the
// catalog are optional collaborators; the database and model client are not.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) (*Server, error) {
	llmService, err := service.NewLLMService(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	embeddingService := service.NewEmbeddingService()
	indexManager := service.NewIndexManager(db, embeddingService, logger)
	assembler := service.NewContextAssembler(indexManager, logger)
	orchestrator := service.NewPromptOrchestrator(llmService)
	classifier := service.NewIntentClassifierWithThreshold(cfg.IntentThreshold)

	var conversations service.ConversationStore
	if redisClient != nil {
		conversations = service.NewRedisConversationStore(redisClient)
	} else {
		logger.Warn("redis unavailable, conversation history is in-memory only")
		conversations = service.NewMemoryConversationStore()
	}

	var catalog service.CatalogServiceInterface
	if cfg.CatalogURL != "" {
		catalog = service.NewCatalogService(cfg.CatalogURL, logger)
	} else {
		logger.Warn("no catalog configured, created recipes stay local to the index")
	}

	chatService := service.NewChatService(
		classifier,
		assembler,
		orchestrator,
		indexManager,
		catalog,
		conversations,
		cfg.SearchTopK,
		logger,
	)

	engine := router.SetupRouter(chatService, redisClient, cfg, logger)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		logger: logger,
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
