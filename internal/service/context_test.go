package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/model"
)

type stubIndex struct {
	entries []model.RecipeIndexEntry
	err     error

	addCalls    []IndexMetadata
	addResult   bool
	deletedIDs  []string
	deleteByRec []string
}

func (s *stubIndex) Add(ctx context.Context, content string, meta IndexMetadata) bool {
	s.addCalls = append(s.addCalls, meta)
	return s.addResult
}

func (s *stubIndex) DeleteByCompoundID(ctx context.Context, compoundID string) bool {
	s.deletedIDs = append(s.deletedIDs, compoundID)
	return true
}

func (s *stubIndex) DeleteByRecipeID(ctx context.Context, recipeID string) bool {
	s.deleteByRec = append(s.deleteByRec, recipeID)
	return true
}

func (s *stubIndex) Search(ctx context.Context, query string, topK int) ([]model.RecipeIndexEntry, error) {
	return s.entries, s.err
}

func meaningfulEntry(compoundID, title string) model.RecipeIndexEntry {
	return model.RecipeIndexEntry{
		CompoundID: compoundID,
		Title:      title,
		Content: "Title: " + title + "\n\n" +
			"Description: A hearty dish you simmer and season slowly\n\n" +
			"Ingredients: 2 lbs chicken, 1 cup rice\n\n" +
			"Steps:\nStep 1: Heat the oven and stir the ingredients.",
	}
}

func TestRetrieveBuildsMeaningfulBundle(t *testing.T) {
	index := &stubIndex{entries: []model.RecipeIndexEntry{
		meaningfulEntry("1+1", "Chicken Rice"),
		meaningfulEntry("2+2", "Chicken Soup"),
	}}
	assembler := NewContextAssembler(index, zap.NewNop())

	bundle := assembler.Retrieve(context.Background(), "chicken", 5)

	assert.True(t, bundle.Meaningful)
	assert.Len(t, bundle.Entries, 2)
	assert.True(t, strings.HasPrefix(bundle.Context, "Recipe 1:"))
	assert.Contains(t, bundle.Context, "Recipe 2:")
}

func TestRetrieveErrorDegradesToEmptyBundle(t *testing.T) {
	index := &stubIndex{err: errors.New("connection refused")}
	assembler := NewContextAssembler(index, zap.NewNop())

	bundle := assembler.Retrieve(context.Background(), "chicken", 5)

	assert.False(t, bundle.Meaningful)
	assert.Empty(t, bundle.Entries)
	assert.Equal(t, "No relevant recipes found.", bundle.Context)
}

func TestRetrieveNoResults(t *testing.T) {
	assembler := NewContextAssembler(&stubIndex{}, zap.NewNop())

	bundle := assembler.Retrieve(context.Background(), "chicken", 5)

	assert.False(t, bundle.Meaningful)
	assert.Equal(t, "No relevant recipes found.", bundle.Context)
}

func TestHasMeaningfulContextRejectsShort(t *testing.T) {
	assert.False(t, hasMeaningfulContext("cook bake stir"))
}

func TestHasMeaningfulContextRejectsGibberish(t *testing.T) {
	rendered := strings.Repeat("lorem ipsum cook bake stir heat the oven for minutes ", 3)
	assert.False(t, hasMeaningfulContext(rendered))
}

func TestHasMeaningfulContextRejectsSignalFree(t *testing.T) {
	rendered := strings.Repeat("a long enough text without any culinary content at all ", 3)
	assert.False(t, hasMeaningfulContext(rendered))
}

func TestHasMeaningfulContextAccepts(t *testing.T) {
	rendered := "Recipe 1:\nTitle: Roast Chicken\n\nDescription: Season the bird, heat the oven " +
		"and roast until done. Serve with vegetables and simmer the juices for gravy."
	assert.True(t, hasMeaningfulContext(rendered))
}
