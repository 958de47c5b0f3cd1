package service

import (
	"fmt"
	"strings"

	"github.com/recipefy/genai/internal/models"
)

// ContentFormatter renders a recipe record into the normalized text blob
// and metadata map stored alongside its embedding in the vector index.
type ContentFormatter struct{}

// NewContentFormatter creates a new ContentFormatter instance
func NewContentFormatter() *ContentFormatter {
	return &ContentFormatter{}
}

// Format produces the embedding text for a recipe. Sections are joined with
// blank lines so the blob reads as prose rather than a field dump.
func (f *ContentFormatter) Format(record *models.RecipeRecord) string {
	parts := []string{
		"Title: " + record.Title,
	}

	desc := record.Description
	if desc == "" {
		desc = "No description"
	}
	parts = append(parts, "Description: "+desc)

	if len(record.Ingredients) > 0 {
		lines := make([]string, 0, len(record.Ingredients))
		for _, ing := range record.Ingredients {
			lines = append(lines, formatIngredient(ing))
		}
		parts = append(parts, "Ingredients: "+strings.Join(lines, ", "))
	}

	if len(record.Steps) > 0 {
		lines := make([]string, 0, len(record.Steps))
		for i, step := range record.Steps {
			lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, step.Details))
		}
		parts = append(parts, "Steps:\n"+strings.Join(lines, "\n"))
	}

	if len(record.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(record.Tags, ", "))
	}

	parts = append(parts, fmt.Sprintf("Serving Size: %d", record.ServingSize))

	return strings.Join(parts, "\n\n")
}

// Metadata builds the filterable metadata stored with an index entry. The
// compound id must already be resolved by the caller.
func (f *ContentFormatter) Metadata(record *models.RecipeRecord, compoundID CompoundID) IndexMetadata {
	tags := make([]string, 0, len(record.Tags))
	tags = append(tags, record.Tags...)

	return IndexMetadata{
		CompoundID:  compoundID,
		RecipeID:    compoundID.RecipeID,
		Title:       record.Title,
		Description: record.Description,
		Tags:        tags,
		ServingSize: record.ServingSize,
		OwnerID:     record.OwnerID,
	}
}

func formatIngredient(ing models.RecipeIngredient) string {
	switch {
	case ing.Amount > 0 && ing.Unit != "":
		return fmt.Sprintf("%g %s %s", ing.Amount, ing.Unit, ing.Name)
	case ing.Amount > 0:
		return fmt.Sprintf("%g %s", ing.Amount, ing.Name)
	default:
		return ing.Name
	}
}
