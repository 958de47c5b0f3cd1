package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/recipefy/genai/internal/models"
)

// CatalogServiceInterface is the external recipe-catalog collaborator. The
// catalog owns the canonical records; the vector index only mirrors them.
type CatalogServiceInterface interface {
	GetRecipe(ctx context.Context, recipeID string) (*models.RecipeRecord, error)
	ListRecipes(ctx context.Context, page, size int) ([]models.RecipeRecord, error)
	CreateRecipe(ctx context.Context, record *models.RecipeRecord) (*models.RecipeRecord, error)
	DeleteRecipe(ctx context.Context, recipeID string) error
	SyncAll(ctx context.Context) ([]models.RecipeRecord, error)
}

// CatalogService is an HTTP client for the recipe catalog microservice.
type CatalogService struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(baseURL string, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// GetRecipe fetches a single canonical recipe by id.
func (s *CatalogService) GetRecipe(ctx context.Context, recipeID string) (*models.RecipeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/recipes/%s", s.baseURL, recipeID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe %s: %w", recipeID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("recipe %s not found", recipeID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for recipe %s", resp.StatusCode, recipeID)
	}

	var record models.RecipeRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", recipeID, err)
	}
	return &record, nil
}

// ListRecipes fetches one page of canonical recipes.
func (s *CatalogService) ListRecipes(ctx context.Context, page, size int) ([]models.RecipeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/recipes?page=%d&size=%d", s.baseURL, page, size), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var payload struct {
		Content []models.RecipeRecord `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode recipe page: %w", err)
	}
	return payload.Content, nil
}

// CreateRecipe persists a new canonical recipe and returns it with the
// catalog-assigned id.
func (s *CatalogService) CreateRecipe(ctx context.Context, record *models.RecipeRecord) (*models.RecipeRecord, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/recipes", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("catalog returned status %d on create", resp.StatusCode)
	}

	var created models.RecipeRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created recipe: %w", err)
	}
	return &created, nil
}

// DeleteRecipe removes the canonical record from the catalog.
func (s *CatalogService) DeleteRecipe(ctx context.Context, recipeID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/recipes/%s", s.baseURL, recipeID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", recipeID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("catalog returned status %d on delete", resp.StatusCode)
	}
	return nil
}

// SyncAll pages through the catalog until it is exhausted. Used to rebuild
// the vector index.
func (s *CatalogService) SyncAll(ctx context.Context) ([]models.RecipeRecord, error) {
	const batchSize = 50

	var all []models.RecipeRecord
	for page := 0; ; page++ {
		recipes, err := s.ListRecipes(ctx, page, batchSize)
		if err != nil {
			return all, err
		}
		if len(recipes) == 0 {
			break
		}
		all = append(all, recipes...)
	}

	s.logger.Info("synced recipes from catalog", zap.Int("count", len(all)))
	return all, nil
}
