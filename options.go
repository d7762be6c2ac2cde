package reelfind

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	csvPath string
	rows    []CatalogRow

	embedder  Embedder
	extractor EntityExtractor

	scanLimit int
	resultCap int
	batchSize int

	logger *zap.Logger
}

// WithCSV loads the catalog from a CSV file at construction time.
func WithCSV(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.csvPath = path
	})
}

// WithRows supplies the catalog directly, bypassing the CSV loader.
func WithRows(rows []CatalogRow) Option {
	return optionFunc(func(c *clientConfig) {
		c.rows = rows
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithEntityExtractor sets the named-entity extractor used for year, country
// and person hints. Without it only genre keywords filter the results.
func WithEntityExtractor(e EntityExtractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithLimits overrides the ranked candidate scan window and the result cap.
// Defaults: 100 candidates, 10 results.
func WithLimits(scanLimit, resultCap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.scanLimit = scanLimit
		c.resultCap = resultCap
	})
}

// WithBatchSize sets the number of rows embedded per provider call during
// catalog construction. Default: 128.
func WithBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.batchSize = n
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
