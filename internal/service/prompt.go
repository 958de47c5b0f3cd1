package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipefy/genai/internal/models"
)

// historyWindow bounds how many stored conversation turns are rendered into
// a prompt. Older turns stay in storage but are not re-sent to the model.
const historyWindow = 6

// recipeJSONSchema is the output contract every creation prompt demands.
const recipeJSONSchema = `{
    "title": "Recipe Title",
    "description": "Recipe description",
    "servingSize": 4,
    "recipeIngredients": [
        {"name": "ingredient name", "unit": "unit", "amount": 1.0}
    ],
    "recipeSteps": [
        {"order": 1, "details": "step description"}
    ],
    "tags": ["tag1", "tag2"]
}`

const createWithContextPrompt = `You are a creative chef assistant. Based on the user's request and similar recipes, create a new recipe.

User Request: %s

Similar Recipes Context:
%s

Create a recipe that matches the user's request while drawing inspiration from the similar recipes. Innovate rather than copy.

IMPORTANT: Return ONLY a single valid JSON object with this exact structure, no other text, no markdown:
%s`

const createWithoutContextPrompt = `You are a creative chef assistant. Create a new recipe based entirely on your own culinary knowledge.

User Request: %s

IMPORTANT: Return ONLY a single valid JSON object with this exact structure, no other text, no markdown:
%s`

const searchWithContextPrompt = `You are a helpful cooking assistant. Based on the following recipes and the user's query, provide a helpful response.

User Query: %s

Available Recipes:
%s

Mention the recipe titles and key features that match the user's query.`

const searchWithoutContextPrompt = `You are a helpful cooking assistant. No stored recipes matched the user's query, so answer from your own culinary knowledge.

User Query: %s

Suggest what the user could search for or offer to create a new recipe.`

// PromptOrchestrator selects and fills a prompt template, then drives the
// single generative-model call for a request.
type PromptOrchestrator struct {
	llm LLMServiceInterface
}

// NewPromptOrchestrator creates a new PromptOrchestrator instance
func NewPromptOrchestrator(llm LLMServiceInterface) *PromptOrchestrator {
	return &PromptOrchestrator{llm: llm}
}

// Respond builds the prompt for the given intent and context bundle and
// returns the raw model reply. Context-aware templates are used only when
// the bundle's meaningfulness verdict allows it.
func (o *PromptOrchestrator) Respond(ctx context.Context, userText string, bundle ContextBundle, intent Intent, history []models.ConversationTurn) (string, error) {
	var prompt string
	jsonOutput := intent == IntentCreate

	switch {
	case intent == IntentCreate && bundle.Meaningful:
		prompt = fmt.Sprintf(createWithContextPrompt, userText, bundle.Context, recipeJSONSchema)
	case intent == IntentCreate:
		prompt = fmt.Sprintf(createWithoutContextPrompt, userText, recipeJSONSchema)
	case bundle.Meaningful:
		prompt = fmt.Sprintf(searchWithContextPrompt, userText, bundle.Context)
	default:
		prompt = fmt.Sprintf(searchWithoutContextPrompt, userText)
	}

	messages := make([]Message, 0, historyWindow+1)
	for _, turn := range recentTurns(history, historyWindow) {
		role := turn.Role
		if role != models.RoleAssistant {
			role = models.RoleUser
		}
		messages = append(messages, Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, Message{Role: models.RoleUser, Content: prompt})

	reply, err := o.llm.Complete(ctx, messages, jsonOutput)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

// recentTurns returns at most n of the newest turns, oldest first.
func recentTurns(history []models.ConversationTurn, n int) []models.ConversationTurn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
