package models

import "time"

// RecipeRecord is the canonical recipe unit exchanged with the catalog
// service and produced by the extraction pipeline. RecipeID may be empty
// before the catalog has persisted the record.
type RecipeRecord struct {
	RecipeID    string             `json:"recipeId,omitempty"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ServingSize int                `json:"servingSize"`
	Ingredients []RecipeIngredient `json:"recipeIngredients"`
	Steps       []RecipeStep       `json:"recipeSteps"`
	Tags        []string           `json:"tags"`
	OwnerID     string             `json:"ownerId,omitempty"`
	BranchID    string             `json:"branchId,omitempty"`
}

// RecipeIngredient is a single ingredient line. Only the name is required;
// unit and amount are best-effort values from the model or the catalog.
type RecipeIngredient struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

// RecipeStep is one instruction. Order is 1-based and contiguous after the
// extractor's repair pass.
type RecipeStep struct {
	Order   int    `json:"order"`
	Details string `json:"details"`
}

// ConversationTurn is one chat exchange entry. Turns are append-only; only
// rendering into a prompt is bounded, not storage.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
