package search

import (
	"context"

	"github.com/reelfind/reelfind/internal/domain"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
)

// Embedder is the consumer interface for query vectorization.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// FilterExtractor derives soft filters from a free-text query.
type FilterExtractor interface {
	Extract(ctx context.Context, query string) filter.Set
}
