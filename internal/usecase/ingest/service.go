// Package ingest builds the in-memory catalog store at startup.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain/catalog"
)

const defaultBatchSize = 128

// Service turns raw catalog records into an embedded catalog store.
type Service struct {
	embedder  Embedder
	batchSize int
	logger    *zap.Logger
}

// New creates an ingest service.
func New(embedder Embedder, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, batchSize: defaultBatchSize, logger: logger}
}

// WithBatchSize overrides the number of texts sent per embedding call.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Build normalizes raw records, derives each row's embedding text, and
// batch-embeds the whole catalog. Any failure here is startup-fatal for the
// caller: the store must be complete before the first query is served.
func (s *Service) Build(ctx context.Context, raws []catalog.Raw) (*catalog.Store, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("catalog source yielded no rows")
	}

	rows := make([]catalog.Row, len(raws))
	texts := make([]string, len(raws))
	for i, raw := range raws {
		rows[i] = catalog.NewRow(raw)
		texts[i] = rows[i].EmbeddingText()
	}

	vectors := make([][]float32, 0, len(texts))
	var totalTokens int

	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))

		res, err := s.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed catalog rows %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, res.Embeddings...)
		totalTokens += res.TotalTokens

		s.logger.Debug("Embedded catalog batch",
			zap.Int("from", start),
			zap.Int("to", end-1),
			zap.Int("batch_tokens", res.TotalTokens),
		)
	}

	store, err := catalog.NewStore(rows, vectors)
	if err != nil {
		return nil, fmt.Errorf("assemble catalog store: %w", err)
	}

	s.logger.Info("Catalog store built",
		zap.Int("rows", store.Len()),
		zap.Int("dimensions", store.Dimensions()),
		zap.Int("total_tokens", totalTokens),
	)
	return store, nil
}
