package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/recipefy/genai/internal/models"
)

// Fallback values used when the model's reply is missing or unusable.
const (
	fallbackTitle       = "Chef's Special Creation"
	fallbackDescription = "A recipe created based on your request"
	fallbackServingSize = 4
)

// placeholderTitles are titles the model echoes back from the prompt schema
// instead of inventing a real one.
var placeholderTitles = map[string]bool{
	"":             true,
	"recipe title": true,
	"untitled":     true,
	"recipe":       true,
}

// ResponseExtractor turns raw model output into a well-formed RecipeRecord.
// It never fails: whatever the model produced, the caller receives a record
// that downstream persistence and display code can use.
type ResponseExtractor struct{}

// NewResponseExtractor creates a new ResponseExtractor instance
func NewResponseExtractor() *ResponseExtractor {
	return &ResponseExtractor{}
}

// rawRecipe mirrors the JSON schema the creation prompts demand, with every
// field optional and loosely typed. Model output is untrusted; the repair
// pass below turns it into a RecipeRecord.
type rawRecipe struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ServingSize flexInt         `json:"servingSize"`
	Ingredients []rawIngredient `json:"recipeIngredients"`
	Steps       []rawStep       `json:"recipeSteps"`
	Tags        []flexTag       `json:"tags"`
}

type rawIngredient struct {
	Name   string    `json:"name"`
	Unit   string    `json:"unit"`
	Amount flexFloat `json:"amount"`
}

type rawStep struct {
	Order   flexInt `json:"order"`
	Details string  `json:"details"`
}

// flexInt accepts numbers, numeric strings and strings with a leading
// integer ("4 servings"). Anything else decodes to zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexInt(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		fields := strings.Fields(str)
		if len(fields) > 0 {
			if n, err := strconv.Atoi(fields[0]); err == nil {
				*f = flexInt(n)
				return nil
			}
		}
		*f = 0
		return nil
	}

	*f = 0
	return nil
}

// flexFloat accepts numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*f = flexFloat(n)
			return nil
		}
	}

	*f = 0
	return nil
}

// flexTag accepts both "tag" and {"name": "tag"} forms.
type flexTag string

func (t *flexTag) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*t = flexTag(str)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*t = flexTag(obj.Name)
		return nil
	}

	*t = ""
	return nil
}

// Extract parses raw model output into a RecipeRecord, repairing missing and
// malformed fields. Calling it twice on the same input yields the same
// record.
func (e *ResponseExtractor) Extract(rawText string) *models.RecipeRecord {
	span, ok := extractJSONSpan(strings.TrimSpace(rawText))
	if !ok {
		return e.defaultRecord()
	}

	var raw rawRecipe
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return e.defaultRecord()
	}

	record := &models.RecipeRecord{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		ServingSize: int(raw.ServingSize),
		Ingredients: []models.RecipeIngredient{},
		Steps:       []models.RecipeStep{},
		Tags:        []string{},
	}

	if record.ServingSize <= 0 {
		record.ServingSize = fallbackServingSize
	}

	for _, ing := range raw.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		amount := float64(ing.Amount)
		if amount < 0 {
			amount = 0
		}
		record.Ingredients = append(record.Ingredients, models.RecipeIngredient{
			Name:   name,
			Unit:   strings.TrimSpace(ing.Unit),
			Amount: amount,
		})
	}

	// Order values from the model are not trusted: surviving steps are
	// re-numbered 1..N in their original relative order.
	for _, step := range raw.Steps {
		details := strings.TrimSpace(step.Details)
		if details == "" {
			continue
		}
		record.Steps = append(record.Steps, models.RecipeStep{
			Order:   len(record.Steps) + 1,
			Details: details,
		})
	}

	for _, tag := range raw.Tags {
		if s := strings.TrimSpace(string(tag)); s != "" {
			record.Tags = append(record.Tags, s)
		}
	}

	if placeholderTitles[strings.ToLower(record.Title)] {
		record.Title = fallbackTitle
	}
	if record.Description == "" {
		record.Description = fallbackDescription
	}

	return record
}

// defaultRecord is returned whenever no JSON object can be recovered. It is
// deliberately non-empty so persistence and display code never observes an
// empty recipe.
func (e *ResponseExtractor) defaultRecord() *models.RecipeRecord {
	return &models.RecipeRecord{
		Title:       fallbackTitle,
		Description: fallbackDescription,
		ServingSize: fallbackServingSize,
		Ingredients: []models.RecipeIngredient{
			{Name: "Fresh seasonal vegetables", Unit: "cups", Amount: 2},
			{Name: "Olive oil", Unit: "tbsp", Amount: 2},
			{Name: "Salt and pepper", Unit: "", Amount: 0},
		},
		Steps: []models.RecipeStep{
			{Order: 1, Details: "Prepare and wash all ingredients."},
			{Order: 2, Details: "Cook the ingredients over medium heat until done."},
			{Order: 3, Details: "Season to taste and serve."},
		},
		Tags: []string{"improvised"},
	}
}

// extractJSONSpan locates the first balanced {...} span in the text,
// skipping brace characters inside JSON strings.
func extractJSONSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
