package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/service"
	"github.com/recipefy/genai/internal/testhelpers"
)

func TestVectorIndexAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}

	db := testhelpers.SetupTestDatabase(t)
	logger := zap.NewNop()
	manager := service.NewIndexManager(db, service.NewEmbeddingService(), logger)
	ctx := context.Background()

	add := func(recipeID, branchID, title, content string) {
		t.Helper()
		compoundID := service.NewCompoundID(recipeID, branchID)
		ok := manager.Add(ctx, content, service.IndexMetadata{
			CompoundID: compoundID,
			RecipeID:   compoundID.RecipeID,
			Title:      title,
		})
		require.True(t, ok)
	}

	add("7", "", "Roast Chicken", "Roast chicken with rosemary and garlic, cooked in the oven")
	add("7", "12", "Grilled Chicken Fork", "Grilled chicken variant with smoky seasoning")
	add("9", "", "Tomato Soup", "Creamy tomato soup simmered with basil")

	// Vector ordering returns results for any query; topK bounds the list.
	entries, err := manager.Search(ctx, "chicken dinner", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Upsert replaces the entry under the same compound id.
	add("7", "", "Roast Chicken Updated", "Roast chicken with rosemary and garlic, updated")
	entries, err = manager.Search(ctx, "roast chicken", 10)
	require.NoError(t, err)
	titles := make(map[string]bool)
	for _, e := range entries {
		titles[e.Title] = true
	}
	assert.True(t, titles["Roast Chicken Updated"])
	assert.False(t, titles["Roast Chicken"])

	// Prefix delete removes both variants of recipe 7 and nothing else.
	require.True(t, manager.DeleteByRecipeID(ctx, "7"))
	entries, err = manager.Search(ctx, "anything", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "9+9", entries[0].CompoundID)
}
