package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/model"
	"github.com/recipefy/genai/internal/models"
)

// apologyReply is returned when the generative model call fails. The
// conversation continues; the failure is logged, not surfaced as an error.
const apologyReply = "I'm sorry, I couldn't process your request right now. Please try again in a moment."

// ChatRequest is one user message in a conversation.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

// ChatResponse is the pipeline's answer to one request. RecipeDraft is set
// only for creation replies; Sources lists the compound ids of the retrieved
// recipes that grounded the answer.
type ChatResponse struct {
	Kind           Intent               `json:"kind"`
	Reply          string               `json:"reply"`
	ConversationID string               `json:"conversation_id"`
	Sources        []string             `json:"sources,omitempty"`
	RecipeDraft    *models.RecipeRecord `json:"recipe_draft,omitempty"`
}

// ChatServiceInterface is the conversational surface consumed by the API
// layer.
type ChatServiceInterface interface {
	ClassifyAndRespond(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	IndexRecipe(ctx context.Context, record *models.RecipeRecord) bool
	DeleteRecipe(ctx context.Context, recipeID string) bool
	DeleteVariant(ctx context.Context, compoundID string) bool
	Search(ctx context.Context, query string, topK int) ([]model.RecipeIndexEntry, error)
	History(ctx context.Context, conversationID string) ([]models.ConversationTurn, error)
	SyncCatalog(ctx context.Context) (int, error)
}

// ChatService wires classification, retrieval, prompting, extraction and
// indexing into the request pipeline.
type ChatService struct {
	classifier    *IntentClassifier
	assembler     *ContextAssembler
	orchestrator  *PromptOrchestrator
	extractor     *ResponseExtractor
	formatter     *ContentFormatter
	index         IndexManagerInterface
	catalog       CatalogServiceInterface
	conversations ConversationStore
	topK          int
	logger        *zap.Logger
}

// NewChatService creates a new ChatService instance
func NewChatService(
	classifier *IntentClassifier,
	assembler *ContextAssembler,
	orchestrator *PromptOrchestrator,
	index IndexManagerInterface,
	catalog CatalogServiceInterface,
	conversations ConversationStore,
	topK int,
	logger *zap.Logger,
) *ChatService {
	if topK <= 0 {
		topK = 5
	}
	return &ChatService{
		classifier:    classifier,
		assembler:     assembler,
		orchestrator:  orchestrator,
		extractor:     NewResponseExtractor(),
		formatter:     NewContentFormatter(),
		index:         index,
		catalog:       catalog,
		conversations: conversations,
		topK:          topK,
		logger:        logger,
	}
}

// ClassifyAndRespond runs the full pipeline for one message: classify,
// retrieve, prompt, and for creation requests extract and persist the new
// recipe. The model is called exactly once per request.
func (s *ChatService) ClassifyAndRespond(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	history, err := s.conversations.History(ctx, conversationID)
	if err != nil {
		s.logger.Warn("failed to load conversation history",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		history = nil
	}

	intent := s.classifier.Classify(req.Message)
	bundle := s.assembler.Retrieve(ctx, req.Message, s.topK)

	resp := &ChatResponse{
		Kind:           intent,
		ConversationID: conversationID,
	}
	if bundle.Meaningful {
		for _, entry := range bundle.Entries {
			resp.Sources = append(resp.Sources, entry.CompoundID)
		}
	}

	reply, err := s.orchestrator.Respond(ctx, req.Message, bundle, intent, history)
	if err != nil {
		s.logger.Error("generation failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		resp.Reply = apologyReply
		s.recordTurns(ctx, conversationID, req.Message, resp.Reply)
		return resp, nil
	}

	if intent == IntentCreate {
		draft := s.extractor.Extract(reply)
		draft.OwnerID = req.UserID
		s.persistDraft(ctx, draft)
		resp.RecipeDraft = draft
		resp.Reply = fmt.Sprintf("I've created a recipe for you: %s. %s", draft.Title, draft.Description)
	} else {
		resp.Reply = reply
	}

	s.recordTurns(ctx, conversationID, req.Message, resp.Reply)
	return resp, nil
}

// persistDraft writes the draft to the catalog and mirrors it into the
// index. Catalog failure downgrades to an unsynced local id; the user still
// receives the draft.
func (s *ChatService) persistDraft(ctx context.Context, draft *models.RecipeRecord) {
	if s.catalog != nil {
		created, err := s.catalog.CreateRecipe(ctx, draft)
		if err != nil {
			s.logger.Warn("catalog persist failed, keeping local draft", zap.Error(err))
		} else {
			draft.RecipeID = created.RecipeID
		}
	}
	if draft.RecipeID == "" {
		draft.RecipeID = uuid.New().String()
	}

	s.IndexRecipe(ctx, draft)
}

// IndexRecipe upserts one recipe into the vector index under its compound
// id.
func (s *ChatService) IndexRecipe(ctx context.Context, record *models.RecipeRecord) bool {
	compoundID := NewCompoundID(record.RecipeID, record.BranchID)
	content := s.formatter.Format(record)
	meta := s.formatter.Metadata(record, compoundID)
	return s.index.Add(ctx, content, meta)
}

// DeleteRecipe removes a recipe and all of its variants from the index.
func (s *ChatService) DeleteRecipe(ctx context.Context, recipeID string) bool {
	return s.index.DeleteByRecipeID(ctx, recipeID)
}

// DeleteVariant removes a single compound-id entry from the index.
func (s *ChatService) DeleteVariant(ctx context.Context, compoundID string) bool {
	return s.index.DeleteByCompoundID(ctx, compoundID)
}

// Search exposes the similarity search directly, without the chat pipeline.
func (s *ChatService) Search(ctx context.Context, query string, topK int) ([]model.RecipeIndexEntry, error) {
	if topK <= 0 {
		topK = s.topK
	}
	return s.index.Search(ctx, query, topK)
}

// History returns the stored turns for a conversation, oldest first.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]models.ConversationTurn, error) {
	return s.conversations.History(ctx, conversationID)
}

// SyncCatalog re-indexes every recipe the catalog holds and returns how many
// entries were written.
func (s *ChatService) SyncCatalog(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, fmt.Errorf("no catalog configured")
	}

	records, err := s.catalog.SyncAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("catalog sync failed: %w", err)
	}

	indexed := 0
	for i := range records {
		if s.IndexRecipe(ctx, &records[i]) {
			indexed++
		}
	}
	return indexed, nil
}

// recordTurns appends the user message and assistant reply to the
// conversation. Storage failure is logged and ignored.
func (s *ChatService) recordTurns(ctx context.Context, conversationID, userText, reply string) {
	now := time.Now().UTC()
	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Content: userText, Timestamp: now},
		{Role: models.RoleAssistant, Content: reply, Timestamp: now},
	}
	for _, turn := range turns {
		if err := s.conversations.Append(ctx, conversationID, turn); err != nil {
			s.logger.Warn("failed to store conversation turn",
				zap.String("conversation_id", conversationID),
				zap.Error(err))
			return
		}
	}
}
