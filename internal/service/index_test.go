package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/recipefy/genai/internal/model"
)

func setupIndexDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.RecipeIndexEntry{}))
	return db
}

func newTestIndexManager(t *testing.T) *IndexManager {
	t.Helper()
	return NewIndexManager(setupIndexDB(t), NewEmbeddingService(), zap.NewNop())
}

func addEntry(t *testing.T, m *IndexManager, recipeID, branchID, title, content string) {
	t.Helper()

	ok := m.Add(context.Background(), content, IndexMetadata{
		CompoundID: NewCompoundID(recipeID, branchID),
		RecipeID:   recipeID,
		Title:      title,
	})
	require.True(t, ok)
}

func TestIndexAddAndSearch(t *testing.T) {
	m := newTestIndexManager(t)

	addEntry(t, m, "1", "", "Roast Chicken", "Roast chicken with herbs")
	addEntry(t, m, "2", "", "Tomato Soup", "Simple tomato soup")

	entries, err := m.Search(context.Background(), "chicken", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1+1", entries[0].CompoundID)
	assert.Equal(t, "Roast Chicken", entries[0].Title)
}

func TestIndexAddUpsertsOnCompoundID(t *testing.T) {
	m := newTestIndexManager(t)

	addEntry(t, m, "1", "", "Old Title", "chicken old")
	addEntry(t, m, "1", "", "New Title", "chicken new")

	entries, err := m.Search(context.Background(), "chicken", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "New Title", entries[0].Title)
}

func TestIndexDeleteByCompoundID(t *testing.T) {
	m := newTestIndexManager(t)

	addEntry(t, m, "7", "", "Original", "chicken original")
	addEntry(t, m, "7", "12", "Fork", "chicken fork")

	assert.True(t, m.DeleteByCompoundID(context.Background(), "7+12"))

	entries, err := m.Search(context.Background(), "chicken", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "7+7", entries[0].CompoundID)
}

func TestIndexDeleteByRecipeIDRemovesAllVariants(t *testing.T) {
	m := newTestIndexManager(t)

	addEntry(t, m, "7", "", "Original", "chicken original")
	addEntry(t, m, "7", "12", "Fork", "chicken fork")
	addEntry(t, m, "9", "", "Unrelated", "chicken unrelated")

	assert.True(t, m.DeleteByRecipeID(context.Background(), "7"))

	entries, err := m.Search(context.Background(), "chicken", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "9+9", entries[0].CompoundID)
}

func TestIndexDeleteByRecipeIDDoesNotOverMatch(t *testing.T) {
	m := newTestIndexManager(t)

	// "42" must not purge "420+1".
	addEntry(t, m, "42", "", "Short ID", "chicken short")
	addEntry(t, m, "420", "1", "Long ID", "chicken long")

	assert.True(t, m.DeleteByRecipeID(context.Background(), "42"))

	entries, err := m.Search(context.Background(), "chicken", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "420+1", entries[0].CompoundID)
}

func TestIndexSearchLimitsResults(t *testing.T) {
	m := newTestIndexManager(t)

	addEntry(t, m, "1", "", "Chicken A", "chicken a")
	addEntry(t, m, "2", "", "Chicken B", "chicken b")
	addEntry(t, m, "3", "", "Chicken C", "chicken c")

	entries, err := m.Search(context.Background(), "chicken", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIndexSearchDefaultTopK(t *testing.T) {
	m := newTestIndexManager(t)

	for i := 0; i < 7; i++ {
		addEntry(t, m, string(rune('a'+i)), "", "Chicken", "chicken dish")
	}

	entries, err := m.Search(context.Background(), "chicken", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
