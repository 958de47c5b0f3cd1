package service

import (
	"fmt"
	"strings"
)

// compoundSeparator joins a recipe id with its branch id in the vector index.
const compoundSeparator = "+"

// CompoundID identifies one indexed variant of a recipe. A recipe that was
// forked from another carries the fork source as its branch; a recipe with
// no fork lineage uses the self-referential form "<id>+<id>". The two parts
// are kept separate so prefix matching never confuses "42" with "420".
type CompoundID struct {
	RecipeID string
	BranchID string
}

// NewCompoundID builds the compound id for a recipe and an optional fork
// source. An empty branch id yields the self-referential form. A recipe id
// that already contains the separator is treated as already combined and
// parsed verbatim, so re-indexing an entry under its stored id is idempotent.
func NewCompoundID(recipeID, branchID string) CompoundID {
	if strings.Contains(recipeID, compoundSeparator) {
		if parsed, err := ParseCompoundID(recipeID); err == nil {
			return parsed
		}
	}
	if branchID == "" {
		branchID = recipeID
	}
	return CompoundID{RecipeID: recipeID, BranchID: branchID}
}

// ParseCompoundID splits a stored compound id back into its parts.
func ParseCompoundID(s string) (CompoundID, error) {
	recipeID, branchID, ok := strings.Cut(s, compoundSeparator)
	if !ok || recipeID == "" || branchID == "" {
		return CompoundID{}, fmt.Errorf("invalid compound id %q", s)
	}
	return CompoundID{RecipeID: recipeID, BranchID: branchID}, nil
}

// String returns the stored form "<recipeId>+<branchId>".
func (c CompoundID) String() string {
	return c.RecipeID + compoundSeparator + c.BranchID
}

// HasRecipeID reports whether this compound id belongs to the given recipe,
// matching the full prefix component rather than a raw string prefix.
func (c CompoundID) HasRecipeID(recipeID string) bool {
	return c.RecipeID == recipeID
}

// RecipePrefixPattern returns the SQL LIKE pattern matching every variant of
// the given recipe id, i.e. "<recipeId>+%". The separator keeps the pattern
// from over-matching longer ids that merely start with the same digits.
func RecipePrefixPattern(recipeID string) string {
	return recipeID + compoundSeparator + "%"
}
