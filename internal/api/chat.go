package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipefy/genai/internal/middleware"
	"github.com/recipefy/genai/internal/service"
)

// ChatHandler handles conversational requests
type ChatHandler struct {
	chatService service.ChatServiceInterface
	validator   middleware.TokenValidator
	limiter     *middleware.RateLimiter
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(chatService service.ChatServiceInterface, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validator:   validator,
		limiter:     limiter,
	}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	chat.Use(middleware.AuthMiddleware(h.validator))
	if h.limiter != nil {
		chat.Use(h.limiter.RateLimitMiddleware())
	}
	{
		chat.POST("", h.Chat)
		chat.GET("/history/:conversation_id", h.History)
	}
}

// Chat handles one user message and returns the assistant's reply.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The token, not the request body, decides who owns created recipes.
	if userID, exists := c.Get("user_id"); exists {
		req.UserID, _ = userID.(string)
	}

	resp, err := h.chatService.ClassifyAndRespond(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// History returns the stored turns for a conversation, oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation ID is required"})
		return
	}

	turns, err := h.chatService.History(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"turns":           turns,
	})
}
