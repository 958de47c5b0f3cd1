package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/model"
)

// noResultsSentinel is rendered when retrieval returns nothing. It doubles
// as a context the meaningfulness check always rejects.
const noResultsSentinel = "No relevant recipes found."

// gibberishTokens flag placeholder or test content that should not steer
// generation. signalTokens are cooking cues a useful context will contain.
// Both lists are tuning policy, not correctness constraints.
var (
	gibberishTokens = []string{
		"lorem", "ipsum", "placeholder", "asdf", "qwerty",
		"test recipe", "sample recipe", "dummy",
	}
	signalTokens = []string{
		"cook", "bake", "mix", "stir", "heat", "season", "chop",
		"simmer", "boil", "roast", "serve", "ingredient", "oven", "minutes",
	}
)

// ContextBundle is the ephemeral result of one retrieval pass: the entries,
// the rendered text context, and whether that context is worth grounding
// generation on. Constructed per request and discarded after the prompt.
type ContextBundle struct {
	Entries    []model.RecipeIndexEntry
	Context    string
	Meaningful bool
}

// ContextAssembler retrieves candidate recipes and renders them into a
// bounded textual context for the prompt.
type ContextAssembler struct {
	index  IndexManagerInterface
	logger *zap.Logger
}

// NewContextAssembler creates a new ContextAssembler instance
func NewContextAssembler(index IndexManagerInterface, logger *zap.Logger) *ContextAssembler {
	return &ContextAssembler{index: index, logger: logger}
}

// Retrieve runs a similarity search and assembles the bundle. Retrieval
// failure degrades to an empty bundle — it never blocks the conversation.
func (a *ContextAssembler) Retrieve(ctx context.Context, query string, topK int) ContextBundle {
	entries, err := a.index.Search(ctx, query, topK)
	if err != nil {
		a.logger.Warn("retrieval failed, continuing without context", zap.Error(err))
		return ContextBundle{Context: noResultsSentinel}
	}

	rendered := renderContext(entries)
	return ContextBundle{
		Entries:    entries,
		Context:    rendered,
		Meaningful: hasMeaningfulContext(rendered),
	}
}

// renderContext formats each retrieved entry as a numbered block.
func renderContext(entries []model.RecipeIndexEntry) string {
	if len(entries) == 0 {
		return noResultsSentinel
	}

	parts := make([]string, 0, len(entries))
	for i, entry := range entries {
		parts = append(parts, fmt.Sprintf("Recipe %d:\n%s", i+1, entry.Content))
	}
	return strings.Join(parts, "\n\n")
}

// hasMeaningfulContext decides whether the rendered context should steer
// generation. Grounding on noisy or placeholder context produces worse
// output than generating unconstrained, so short, gibberish-heavy or
// signal-free contexts are rejected.
func hasMeaningfulContext(rendered string) bool {
	if len(rendered) < 100 {
		return false
	}

	lower := strings.ToLower(rendered)

	gibberish := 0
	for _, tok := range gibberishTokens {
		if strings.Contains(lower, tok) {
			gibberish++
		}
	}
	if gibberish > 1 {
		return false
	}

	signal := 0
	for _, tok := range signalTokens {
		if strings.Contains(lower, tok) {
			signal++
		}
	}
	return signal >= 2
}
