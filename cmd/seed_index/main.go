package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/recipefy/genai/config"
	"github.com/recipefy/genai/internal/database"
	"github.com/recipefy/genai/internal/service"
)

// seed_index rebuilds the vector index from the recipe catalog. Run it after
// a schema reset or when the index has drifted from the catalog.
func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.CatalogURL == "" {
		logger.Fatal("CATALOG_URL is required to seed the index")
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	embeddingService := service.NewEmbeddingService()
	indexManager := service.NewIndexManager(db, embeddingService, logger)
	catalog := service.NewCatalogService(cfg.CatalogURL, logger)
	formatter := service.NewContentFormatter()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := catalog.SyncAll(ctx)
	if err != nil {
		logger.Fatal("failed to fetch recipes from catalog", zap.Error(err))
	}

	indexed := 0
	for i := range records {
		record := &records[i]
		compoundID := service.NewCompoundID(record.RecipeID, record.BranchID)
		content := formatter.Format(record)
		if indexManager.Add(ctx, content, formatter.Metadata(record, compoundID)) {
			indexed++
		}
	}

	logger.Info("index seeding complete",
		zap.Int("fetched", len(records)),
		zap.Int("indexed", indexed))
}
