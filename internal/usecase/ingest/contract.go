package ingest

import (
	"context"

	"github.com/reelfind/reelfind/internal/domain"
)

// Embedder is the consumer interface for batch catalog vectorization.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
