package domain

import "errors"

var (
	// ErrCatalogSource signals a malformed or unreadable catalog source. Startup-fatal.
	ErrCatalogSource = errors.New("catalog source error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExtractionProviderError signals an entity extraction provider failure.
	ErrExtractionProviderError = errors.New("extraction provider error")
)
