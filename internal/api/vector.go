package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/middleware"
	"github.com/recipefy/genai/internal/models"
	"github.com/recipefy/genai/internal/service"
)

// VectorHandler handles direct vector-index maintenance requests. The chat
// pipeline keeps the index in sync on its own; these endpoints exist for the
// catalog service and operators.
type VectorHandler struct {
	chatService service.ChatServiceInterface
	validator   middleware.TokenValidator
	logger      *zap.Logger
}

// NewVectorHandler creates a new VectorHandler instance
func NewVectorHandler(chatService service.ChatServiceInterface, validator middleware.TokenValidator, logger *zap.Logger) *VectorHandler {
	return &VectorHandler{
		chatService: chatService,
		validator:   validator,
		logger:      logger,
	}
}

// RegisterRoutes registers the vector-index routes
func (h *VectorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vector := router.Group("/vector")
	vector.Use(middleware.AuthMiddleware(h.validator))
	{
		vector.POST("/index", h.Index)
		vector.GET("/search", h.Search)
		vector.POST("/sync", h.Sync)
		vector.DELETE("/recipes/:recipe_id", h.DeleteRecipe)
		vector.DELETE("/entries/:compound_id", h.DeleteEntry)
	}
}

// Index upserts one recipe into the vector index.
func (h *VectorHandler) Index(c *gin.Context) {
	var record models.RecipeRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if record.RecipeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe ID is required"})
		return
	}

	if !h.chatService.IndexRecipe(c.Request.Context(), &record) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to index recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"indexed": true})
}

// Search runs a similarity search against the index.
func (h *VectorHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	topK := 0
	if v := c.Query("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top_k must be a positive integer"})
			return
		}
		topK = n
	}

	entries, err := h.chatService.Search(c.Request.Context(), query, topK)
	if err != nil {
		h.logger.Error("vector search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	results := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		results = append(results, gin.H{
			"compound_id":  entry.CompoundID,
			"recipe_id":    entry.RecipeID,
			"title":        entry.Title,
			"description":  entry.Description,
			"tags":         entry.Tags,
			"serving_size": entry.ServingSize,
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Sync re-indexes every recipe from the catalog.
func (h *VectorHandler) Sync(c *gin.Context) {
	indexed, err := h.chatService.SyncCatalog(c.Request.Context())
	if err != nil {
		h.logger.Error("catalog sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"indexed": indexed})
}

// DeleteRecipe removes a recipe and all of its variants from the index.
func (h *VectorHandler) DeleteRecipe(c *gin.Context) {
	recipeID := c.Param("recipe_id")
	if !h.chatService.DeleteRecipe(c.Request.Context(), recipeID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteEntry removes a single compound-id entry from the index.
func (h *VectorHandler) DeleteEntry(c *gin.Context) {
	compoundID := c.Param("compound_id")
	if !h.chatService.DeleteVariant(c.Request.Context(), compoundID) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
