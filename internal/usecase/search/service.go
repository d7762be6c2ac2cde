// Package search runs the query pipeline: filter extraction, query
// vectorization, similarity ranking, and filtered candidate selection.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain/catalog"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
	"github.com/reelfind/reelfind/internal/domain/search/result"
	"github.com/reelfind/reelfind/internal/metrics"
)

const (
	defaultScanLimit = 100
	defaultResultCap = 10
)

// Service answers free-text queries against the embedded catalog.
type Service struct {
	store     *catalog.Store
	embedder  Embedder
	extractor FilterExtractor
	scanLimit int
	resultCap int
	logger    *zap.Logger
}

// New creates a search service with the default scan window and result cap.
func New(store *catalog.Store, embedder Embedder, extractor FilterExtractor, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		embedder:  embedder,
		extractor: extractor,
		scanLimit: defaultScanLimit,
		resultCap: defaultResultCap,
		logger:    logger,
	}
}

// WithLimits overrides the candidate scan window and the result cap.
// Non-positive values keep the current setting.
func (s *Service) WithLimits(scanLimit, resultCap int) *Service {
	if scanLimit > 0 {
		s.scanLimit = scanLimit
	}
	if resultCap > 0 {
		s.resultCap = resultCap
	}
	return s
}

// Search runs the full pipeline for one query and returns the selected
// matches together with the filters that were applied.
func (s *Service) Search(ctx context.Context, query string) ([]result.Match, filter.Set, error) {
	start := time.Now()

	filters := s.extractor.Extract(ctx, query)

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return nil, filters, fmt.Errorf("vectorize query: %w", err)
	}

	ranked := Rank(emb.Embedding, s.store)
	matches := Select(ranked, filters, s.store, s.scanLimit, s.resultCap)

	outcome := "results"
	if len(matches) == 0 {
		outcome = "no_results"
	}
	metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResultsSelected.Observe(float64(len(matches)))

	s.logger.Debug("Search completed",
		zap.Int("matches", len(matches)),
		zap.Int("query_tokens", emb.TotalTokens),
		zap.Duration("took", time.Since(start)),
	)
	return matches, filters, nil
}
