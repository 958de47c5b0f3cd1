package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipefy/genai/internal/models"
)

type stubLLM struct {
	reply string
	err   error

	gotMessages   []Message
	gotJSONOutput bool
	calls         int
}

func (s *stubLLM) Complete(ctx context.Context, messages []Message, jsonOutput bool) (string, error) {
	s.calls++
	s.gotMessages = messages
	s.gotJSONOutput = jsonOutput
	return s.reply, s.err
}

func meaningfulBundle() ContextBundle {
	return ContextBundle{
		Context:    "Recipe 1:\nTitle: Chicken Rice\nCook and simmer with seasonal ingredients in the oven.",
		Meaningful: true,
	}
}

func TestRespondCreateWithContext(t *testing.T) {
	llm := &stubLLM{reply: `{"title": "X"}`}
	orchestrator := NewPromptOrchestrator(llm)

	_, err := orchestrator.Respond(context.Background(), "make me chicken", meaningfulBundle(), IntentCreate, nil)
	require.NoError(t, err)

	assert.True(t, llm.gotJSONOutput)
	prompt := llm.gotMessages[len(llm.gotMessages)-1].Content
	assert.Contains(t, prompt, "Similar Recipes Context:")
	assert.Contains(t, prompt, "Chicken Rice")
	assert.Contains(t, prompt, `"recipeIngredients"`)
}

func TestRespondCreateWithoutContext(t *testing.T) {
	llm := &stubLLM{reply: `{"title": "X"}`}
	orchestrator := NewPromptOrchestrator(llm)

	_, err := orchestrator.Respond(context.Background(), "make me chicken", ContextBundle{}, IntentCreate, nil)
	require.NoError(t, err)

	assert.True(t, llm.gotJSONOutput)
	prompt := llm.gotMessages[len(llm.gotMessages)-1].Content
	assert.Contains(t, prompt, "own culinary knowledge")
	assert.NotContains(t, prompt, "Similar Recipes Context:")
}

func TestRespondSearchWithContext(t *testing.T) {
	llm := &stubLLM{reply: "Try the Chicken Rice."}
	orchestrator := NewPromptOrchestrator(llm)

	reply, err := orchestrator.Respond(context.Background(), "something with chicken", meaningfulBundle(), IntentSearch, nil)
	require.NoError(t, err)

	assert.False(t, llm.gotJSONOutput)
	assert.Equal(t, "Try the Chicken Rice.", reply)
	prompt := llm.gotMessages[len(llm.gotMessages)-1].Content
	assert.Contains(t, prompt, "Available Recipes:")
}

func TestRespondSearchWithoutContext(t *testing.T) {
	llm := &stubLLM{reply: "Nothing stored, but here is an idea."}
	orchestrator := NewPromptOrchestrator(llm)

	_, err := orchestrator.Respond(context.Background(), "something with chicken", ContextBundle{}, IntentSearch, nil)
	require.NoError(t, err)

	assert.False(t, llm.gotJSONOutput)
	prompt := llm.gotMessages[len(llm.gotMessages)-1].Content
	assert.Contains(t, prompt, "No stored recipes matched")
}

func TestRespondSingleModelCall(t *testing.T) {
	llm := &stubLLM{reply: "ok"}
	orchestrator := NewPromptOrchestrator(llm)

	_, err := orchestrator.Respond(context.Background(), "hi", ContextBundle{}, IntentSearch, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestRespondPrependsBoundedHistory(t *testing.T) {
	llm := &stubLLM{reply: "ok"}
	orchestrator := NewPromptOrchestrator(llm)

	history := make([]models.ConversationTurn, 0, 10)
	for i := 0; i < 10; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history = append(history, models.ConversationTurn{Role: role, Content: string(rune('a' + i))})
	}

	_, err := orchestrator.Respond(context.Background(), "hi", ContextBundle{}, IntentSearch, history)
	require.NoError(t, err)

	// 6 history turns plus the prompt itself.
	require.Len(t, llm.gotMessages, 7)
	assert.Equal(t, "e", llm.gotMessages[0].Content)
	assert.Equal(t, models.RoleUser, llm.gotMessages[len(llm.gotMessages)-1].Role)
}

func TestRespondWrapsModelError(t *testing.T) {
	llm := &stubLLM{err: errors.New("timeout")}
	orchestrator := NewPromptOrchestrator(llm)

	_, err := orchestrator.Respond(context.Background(), "hi", ContextBundle{}, IntentSearch, nil)
	assert.ErrorContains(t, err, "model call failed")
}
