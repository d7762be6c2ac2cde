// Package extract derives soft filters from a free-text query.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
)

// genreVocabulary is the closed list of genre keywords recognized in queries.
// Scanned in order; every keyword found becomes a genre hint.
var genreVocabulary = []string{
	"romantic",
	"romance",
	"comedy",
	"action",
	"crime",
	"horror",
	"cartoon",
	"anime",
	"thriller",
	"documentary",
	"drama",
}

// Service extracts filter hints from queries. Genre detection is a pure
// vocabulary scan; year, country and person come from the entity extractor.
type Service struct {
	entities EntityExtractor
	logger   *zap.Logger
}

// New creates an extraction service. A nil extractor disables entity hints
// and leaves genre detection as the only filter source.
func New(entities EntityExtractor, logger *zap.Logger) *Service {
	return &Service{entities: entities, logger: logger}
}

// Extract builds the filter set for a query. Entity extraction failures
// degrade to genre-only filtering: a worse answer beats no answer here.
func (s *Service) Extract(ctx context.Context, query string) filter.Set {
	lowered := strings.ToLower(query)

	var genres []string
	for _, g := range genreVocabulary {
		if strings.Contains(lowered, g) {
			genres = append(genres, g)
		}
	}

	var year, country, person string
	if s.entities != nil && strings.TrimSpace(query) != "" {
		ents, err := s.entities.ExtractEntities(ctx, lowered)
		if err != nil {
			s.logger.Warn("Entity extraction failed, applying genre filters only",
				zap.Error(err),
			)
			return filter.New(genres, "", "", "")
		}

		// Later mentions overwrite earlier ones for the same label.
		for _, ent := range ents {
			switch ent.Label {
			case domain.EntityDate:
				year = ent.Text
			case domain.EntityGPE:
				country = ent.Text
			case domain.EntityPerson:
				person = ent.Text
			}
		}
	}

	set := filter.New(genres, year, country, person)
	if !set.IsEmpty() {
		s.logger.Debug("Extracted query filters",
			zap.Strings("genres", set.Genres()),
			zap.String("year", set.Year()),
			zap.String("country", set.Country()),
			zap.String("person", set.Person()),
		)
	}
	return set
}
