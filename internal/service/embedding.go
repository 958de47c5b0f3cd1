package service

import (
	"math"
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// embeddingDim matches the vector column width on recipe_index_entries.
const embeddingDim = 64

// EmbeddingServiceInterface produces the vector representation of a text
// blob. The default implementation is a local deterministic encoder; a
// model-backed encoder can be substituted without touching the index.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// EmbeddingService is a deterministic bag-of-words hashing encoder.
type EmbeddingService struct{}

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

// GenerateEmbedding hashes each token into one of embeddingDim buckets and
// L2-normalizes the counts. Identical text always yields identical vectors.
func (s *EmbeddingService) GenerateEmbedding(text string) (pgvector.Vector, error) {
	vec := make([]float32, embeddingDim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()\"'")
		if tok == "" {
			continue
		}
		var h uint32 = 2166136261
		for i := 0; i < len(tok); i++ {
			h ^= uint32(tok[i])
			h *= 16777619
		}
		vec[h%embeddingDim]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return pgvector.NewVector(vec), nil
}
