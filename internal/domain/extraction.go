package domain

import "context"

// EntityLabel is a named-entity category produced by the extraction capability.
type EntityLabel string

// Entity labels the filter extractor understands. Extractors may emit other
// labels; consumers ignore them.
const (
	EntityDate   EntityLabel = "DATE"
	EntityGPE    EntityLabel = "GPE"
	EntityPerson EntityLabel = "PERSON"
)

// Entity is a single labeled span extracted from query text.
type Entity struct {
	Label EntityLabel
	Text  string
}

// EntityExtractor is the named-entity extraction contract.
// Implementations return entities in document order and must be safe for
// concurrent use.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) ([]Entity, error)
}
