package extract

import (
	"context"

	"github.com/reelfind/reelfind/internal/domain"
)

// EntityExtractor is the consumer interface for named-entity recognition.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) ([]domain.Entity, error)
}
