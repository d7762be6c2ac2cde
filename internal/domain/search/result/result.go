// Package result holds per-query ranking artifacts.
package result

import "github.com/reelfind/reelfind/internal/domain/catalog"

// Match is a single selected catalog row with its similarity score.
type Match struct {
	index int
	row   catalog.Row
	score float64
}

// New creates a match.
func New(index int, row catalog.Row, score float64) Match {
	return Match{index: index, row: row, score: score}
}

// Index returns the original catalog index of the row.
func (m Match) Index() int { return m.index }

// Row returns the matched catalog row.
func (m Match) Row() catalog.Row { return m.row }

// Score returns the cosine similarity against the query, higher is closer.
func (m Match) Score() float64 { return m.score }
