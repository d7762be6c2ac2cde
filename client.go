// Package reelfind embeds the semantic title search engine in-process:
// load a catalog once, embed it, then answer free-text queries.
package reelfind

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
	"github.com/reelfind/reelfind/internal/domain/catalog"
	catalogrepo "github.com/reelfind/reelfind/internal/repository/catalog"
	extractuc "github.com/reelfind/reelfind/internal/usecase/extract"
	ingestuc "github.com/reelfind/reelfind/internal/usecase/ingest"
	"github.com/reelfind/reelfind/internal/usecase/present"
	searchuc "github.com/reelfind/reelfind/internal/usecase/search"
)

// EmbeddingResult carries an embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Implementations typically wrap an embedding API.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Entity is one named entity found in a query.
type Entity struct {
	Label string // "DATE", "GPE" or "PERSON"
	Text  string
}

// EntityExtractor finds named entities in free text, in document order.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
}

// CatalogRow is one catalog record as supplied by the caller.
type CatalogRow struct {
	Title       string
	Genres      string
	Country     string
	ReleaseYear string
	Director    string
	Cast        string
	Description string
}

// Filters echoes the soft constraints applied to a query.
type Filters struct {
	Genres  []string
	Year    string
	Country string
	Person  string
}

// Result is one matched catalog row.
type Result struct {
	Title       string
	ReleaseYear string
	Genres      string
	Country     string
	Director    string
	Cast        string
	Description string
	Score       float64
}

// Answer is the reply to one query.
type Answer struct {
	Text    string // rendered reply, "No results found." when empty
	Filters Filters
	Results []Result
}

// Client is the reelfind SDK entry point. Safe for concurrent use once built.
type Client struct {
	store  *catalog.Store
	search *searchuc.Service
}

// New builds a Client: loads the catalog, embeds every row, and wires the
// query pipeline. Construction cost is one embedding pass over the catalog.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.embedder == nil {
		return nil, errors.New("reelfind: embedder required (use WithEmbedder)")
	}
	if cfg.csvPath == "" && len(cfg.rows) == 0 {
		return nil, errors.New("reelfind: catalog required (use WithCSV or WithRows)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	raws, err := loadRaws(cfg)
	if err != nil {
		return nil, err
	}

	embedder := &embedderAdapter{inner: cfg.embedder}

	ingestSvc := ingestuc.New(&batchAdapter{inner: embedder}, logger)
	if cfg.batchSize > 0 {
		ingestSvc = ingestSvc.WithBatchSize(cfg.batchSize)
	}
	store, err := ingestSvc.Build(ctx, raws)
	if err != nil {
		return nil, fmt.Errorf("reelfind: build catalog: %w", err)
	}

	var entityExtractor extractuc.EntityExtractor
	if cfg.extractor != nil {
		entityExtractor = &extractorAdapter{inner: cfg.extractor}
	}
	extractSvc := extractuc.New(entityExtractor, logger)

	searchSvc := searchuc.New(store, embedder, extractSvc, logger)
	if cfg.scanLimit > 0 || cfg.resultCap > 0 {
		searchSvc = searchSvc.WithLimits(cfg.scanLimit, cfg.resultCap)
	}

	return &Client{store: store, search: searchSvc}, nil
}

func loadRaws(cfg *clientConfig) ([]catalog.Raw, error) {
	if len(cfg.rows) > 0 {
		raws := make([]catalog.Raw, len(cfg.rows))
		for i, r := range cfg.rows {
			raws[i] = catalog.Raw{
				Title:       r.Title,
				Genres:      r.Genres,
				Country:     r.Country,
				ReleaseYear: r.ReleaseYear,
				Director:    r.Director,
				Cast:        r.Cast,
				Description: r.Description,
			}
		}
		return raws, nil
	}

	raws, err := catalogrepo.NewLoader(cfg.csvPath).Load()
	if err != nil {
		return nil, fmt.Errorf("reelfind: load catalog: %w", err)
	}
	return raws, nil
}

// Search answers one free-text query.
func (c *Client) Search(ctx context.Context, query string) (Answer, error) {
	matches, filters, err := c.search.Search(ctx, query)
	if err != nil {
		return Answer{}, fmt.Errorf("reelfind: search: %w", err)
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		row := m.Row()
		results[i] = Result{
			Title:       row.Title(),
			ReleaseYear: row.ReleaseYear(),
			Genres:      row.Genres(),
			Country:     row.Country(),
			Director:    row.Director(),
			Cast:        row.Cast(),
			Description: row.Description(),
			Score:       m.Score(),
		}
	}

	return Answer{
		Text: present.Render(matches),
		Filters: Filters{
			Genres:  filters.Genres(),
			Year:    filters.Year(),
			Country: filters.Country(),
			Person:  filters.Person(),
		},
		Results: results,
	}, nil
}

// Rows returns the number of catalog rows held by the client.
func (c *Client) Rows() int { return c.store.Len() }

// Dimensions returns the embedding vector length of the catalog.
func (c *Client) Dimensions() int { return c.store.Dimensions() }

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// batchAdapter turns a per-text embedder into a batch one for ingest.
type batchAdapter struct {
	inner domain.Embedder
}

func (a *batchAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, a.inner, texts)
}

// extractorAdapter wraps the public EntityExtractor for the internal contract.
type extractorAdapter struct {
	inner EntityExtractor
}

func (a *extractorAdapter) ExtractEntities(ctx context.Context, text string) ([]domain.Entity, error) {
	ents, err := a.inner.ExtractEntities(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}
	out := make([]domain.Entity, len(ents))
	for i, e := range ents {
		out[i] = domain.Entity{Label: domain.EntityLabel(e.Label), Text: e.Text}
	}
	return out, nil
}
