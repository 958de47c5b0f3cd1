package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recipefy/genai/internal/model"
)

// IndexMetadata is the filterable metadata attached to an index entry. The
// compound id must be resolved before the entry reaches the index.
type IndexMetadata struct {
	CompoundID  CompoundID
	RecipeID    string
	Title       string
	Description string
	Tags        []string
	ServingSize int
	OwnerID     string
}

// IndexManagerInterface is the vector-index collaborator consumed by the
// chat pipeline. Write and delete results are booleans rather than errors:
// the caller needs to know persistence did not happen, not why.
type IndexManagerInterface interface {
	Add(ctx context.Context, content string, meta IndexMetadata) bool
	DeleteByCompoundID(ctx context.Context, compoundID string) bool
	DeleteByRecipeID(ctx context.Context, recipeID string) bool
	Search(ctx context.Context, query string, topK int) ([]model.RecipeIndexEntry, error)
}

// IndexManager owns the compound-identifier scheme over the vector index.
type IndexManager struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
	logger           *zap.Logger
}

// NewIndexManager creates a new IndexManager instance
func NewIndexManager(db *gorm.DB, embeddingService EmbeddingServiceInterface, logger *zap.Logger) *IndexManager {
	return &IndexManager{
		db:               db,
		embeddingService: embeddingService,
		logger:           logger,
	}
}

// Add upserts an index entry for the given content and metadata. Re-indexing
// an existing compound id replaces the stored entry.
func (m *IndexManager) Add(ctx context.Context, content string, meta IndexMetadata) bool {
	embedding, err := m.embeddingService.GenerateEmbedding(content)
	if err != nil {
		m.logger.Error("failed to embed index content",
			zap.String("compound_id", meta.CompoundID.String()),
			zap.Error(err))
		return false
	}

	entry := model.RecipeIndexEntry{
		CompoundID:  meta.CompoundID.String(),
		RecipeID:    meta.CompoundID.RecipeID,
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        model.JSONBStringArray(meta.Tags),
		ServingSize: meta.ServingSize,
		OwnerID:     meta.OwnerID,
		Content:     content,
		Embedding:   embedding,
	}

	err = m.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "compound_id"}},
			UpdateAll: true,
		}).
		Create(&entry).Error
	if err != nil {
		m.logger.Error("failed to upsert index entry",
			zap.String("compound_id", entry.CompoundID),
			zap.Error(err))
		return false
	}

	m.logger.Info("indexed recipe",
		zap.String("compound_id", entry.CompoundID),
		zap.String("title", entry.Title))
	return true
}

// DeleteByCompoundID removes the single entry with the exact compound id.
func (m *IndexManager) DeleteByCompoundID(ctx context.Context, compoundID string) bool {
	err := m.db.WithContext(ctx).
		Unscoped().
		Where("compound_id = ?", compoundID).
		Delete(&model.RecipeIndexEntry{}).Error
	if err != nil {
		m.logger.Error("failed to delete index entry",
			zap.String("compound_id", compoundID),
			zap.Error(err))
		return false
	}
	return true
}

// DeleteByRecipeID removes every variant of a recipe: all entries whose
// compound id matches "<recipeId>+*". The separator in the pattern keeps
// recipe "42" from purging "420+1".
func (m *IndexManager) DeleteByRecipeID(ctx context.Context, recipeID string) bool {
	err := m.db.WithContext(ctx).
		Unscoped().
		Where("compound_id LIKE ?", RecipePrefixPattern(recipeID)).
		Delete(&model.RecipeIndexEntry{}).Error
	if err != nil {
		m.logger.Error("failed to delete recipe variants",
			zap.String("recipe_id", recipeID),
			zap.Error(err))
		return false
	}

	m.logger.Info("deleted recipe from index", zap.String("recipe_id", recipeID))
	return true
}

// Search returns the topK nearest entries to the query. On postgres the
// ranking is vector distance; other dialects fall back to keyword matching
// so tests can run against sqlite.
func (m *IndexManager) Search(ctx context.Context, query string, topK int) ([]model.RecipeIndexEntry, error) {
	if topK <= 0 {
		topK = 5
	}

	var entries []model.RecipeIndexEntry
	dbQuery := m.db.WithContext(ctx)

	if m.db.Dialector.Name() == "postgres" {
		vec, err := m.embeddingService.GenerateEmbedding(query)
		if err != nil {
			return nil, err
		}
		dbQuery = dbQuery.Order(clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}})
	} else {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(content) LIKE ?",
			like, like, like)
	}

	if err := dbQuery.Limit(topK).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
