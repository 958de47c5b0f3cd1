package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWellFormedJSON(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`{
		"title": "Spicy Chicken Curry",
		"description": "A fiery curry",
		"servingSize": 4,
		"recipeIngredients": [
			{"name": "chicken", "unit": "lbs", "amount": 2},
			{"name": "curry paste", "unit": "tbsp", "amount": 3}
		],
		"recipeSteps": [
			{"order": 1, "details": "Brown the chicken."},
			{"order": 2, "details": "Add curry paste and simmer."}
		],
		"tags": ["spicy", "curry"]
	}`)

	assert.Equal(t, "Spicy Chicken Curry", record.Title)
	assert.Equal(t, 4, record.ServingSize)
	assert.Len(t, record.Ingredients, 2)
	assert.Len(t, record.Steps, 2)
	assert.Equal(t, []string{"spicy", "curry"}, record.Tags)
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`Sure! Here is your recipe:
{"title": "Tomato Soup", "description": "Simple soup", "servingSize": 2,
 "recipeIngredients": [{"name": "tomatoes", "unit": "lbs", "amount": 1}],
 "recipeSteps": [{"order": 1, "details": "Simmer the tomatoes."}],
 "tags": []}
Enjoy your meal!`)

	assert.Equal(t, "Tomato Soup", record.Title)
	assert.Len(t, record.Ingredients, 1)
}

func TestExtractGarbageFallsBackToDefault(t *testing.T) {
	extractor := NewResponseExtractor()

	for _, input := range []string{
		"",
		"I cannot help with that.",
		"{broken json",
		"{\"title\": \"x\"", // unbalanced
	} {
		record := extractor.Extract(input)
		require.NotNil(t, record)
		assert.Equal(t, "Chef's Special Creation", record.Title)
		assert.Len(t, record.Ingredients, 3)
		assert.Len(t, record.Steps, 3)
		assert.Equal(t, 4, record.ServingSize)
	}
}

func TestExtractRepairsPlaceholderTitle(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`{"title": "Recipe Title", "description": "", "servingSize": 0,
		"recipeIngredients": [], "recipeSteps": [], "tags": []}`)

	assert.Equal(t, "Chef's Special Creation", record.Title)
	assert.Equal(t, "A recipe created based on your request", record.Description)
	assert.Equal(t, 4, record.ServingSize)
}

func TestExtractRenumbersSteps(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`{"title": "T", "description": "D", "servingSize": 2,
		"recipeIngredients": [{"name": "x"}],
		"recipeSteps": [
			{"order": 7, "details": "first"},
			{"order": 3, "details": ""},
			{"order": 99, "details": "second"}
		],
		"tags": []}`)

	assert.Len(t, record.Steps, 2)
	assert.Equal(t, 1, record.Steps[0].Order)
	assert.Equal(t, "first", record.Steps[0].Details)
	assert.Equal(t, 2, record.Steps[1].Order)
	assert.Equal(t, "second", record.Steps[1].Details)
}

func TestExtractDropsNamelessIngredients(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`{"title": "T", "description": "D", "servingSize": 2,
		"recipeIngredients": [{"name": "  "}, {"name": "salt", "amount": -1}],
		"recipeSteps": [{"order": 1, "details": "mix"}],
		"tags": []}`)

	assert.Len(t, record.Ingredients, 1)
	assert.Equal(t, "salt", record.Ingredients[0].Name)
	assert.Equal(t, 0.0, record.Ingredients[0].Amount)
}

func TestExtractFlexibleServingSize(t *testing.T) {
	extractor := NewResponseExtractor()

	cases := map[string]int{
		`"4"`:          4,
		`"4 servings"`: 4,
		`"several"`:    4, // unusable, falls back
		`6`:            6,
		`6.7`:          6,
	}
	for raw, want := range cases {
		record := extractor.Extract(`{"title": "T", "description": "D", "servingSize": ` + raw + `,
			"recipeIngredients": [], "recipeSteps": [], "tags": []}`)
		assert.Equal(t, want, record.ServingSize, "servingSize %s", raw)
	}
}

func TestExtractFlexibleTags(t *testing.T) {
	extractor := NewResponseExtractor()

	record := extractor.Extract(`{"title": "T", "description": "D", "servingSize": 2,
		"recipeIngredients": [], "recipeSteps": [],
		"tags": ["plain", {"name": "wrapped"}, ""]}`)

	assert.Equal(t, []string{"plain", "wrapped"}, record.Tags)
}

func TestExtractIsIdempotent(t *testing.T) {
	extractor := NewResponseExtractor()
	input := `{"title": "Stable", "description": "D", "servingSize": 3,
		"recipeIngredients": [{"name": "x", "unit": "g", "amount": 10}],
		"recipeSteps": [{"order": 5, "details": "do it"}], "tags": ["a"]}`

	first := extractor.Extract(input)
	second := extractor.Extract(input)
	assert.Equal(t, first, second)
}

func TestExtractJSONSpanSkipsBracesInStrings(t *testing.T) {
	span, ok := extractJSONSpan(`noise {"title": "has } brace", "description": "x"} trailing`)
	assert.True(t, ok)
	assert.Equal(t, `{"title": "has } brace", "description": "x"}`, span)
}
