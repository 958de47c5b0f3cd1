package service

import "strings"

// Intent is the classified purpose of a chat message.
type Intent string

const (
	IntentSearch Intent = "search"
	IntentCreate Intent = "create"
)

// defaultCreationKeywords are the substrings counted as creation cues.
// The list and threshold are policy, not a language model; they are kept as
// data so they can be tuned without touching the pipeline.
var defaultCreationKeywords = []string{
	"create", "make", "generate", "new", "recipe", "cook", "prepare", "dish",
}

// IntentClassifier decides whether a message asks to find existing recipes
// or to create a new one.
type IntentClassifier struct {
	keywords  []string
	threshold int
}

// NewIntentClassifier creates a classifier with the default keyword table.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{
		keywords:  defaultCreationKeywords,
		threshold: 2,
	}
}

// NewIntentClassifierWithKeywords creates a classifier with a custom keyword
// table and threshold.
func NewIntentClassifierWithKeywords(keywords []string, threshold int) *IntentClassifier {
	return &IntentClassifier{keywords: keywords, threshold: threshold}
}

// NewIntentClassifierWithThreshold creates a classifier with the default
// keyword table and a tuned threshold.
func NewIntentClassifierWithThreshold(threshold int) *IntentClassifier {
	if threshold <= 0 {
		threshold = 2
	}
	return &IntentClassifier{keywords: defaultCreationKeywords, threshold: threshold}
}

// Classify counts case-insensitive keyword matches in the message and
// returns IntentCreate once the threshold is reached. Empty messages are
// search requests.
func (c *IntentClassifier) Classify(message string) Intent {
	message = strings.ToLower(strings.TrimSpace(message))
	if message == "" {
		return IntentSearch
	}

	count := 0
	for _, kw := range c.keywords {
		if strings.Contains(message, kw) {
			count++
			if count >= c.threshold {
				return IntentCreate
			}
		}
	}
	return IntentSearch
}
