package search

import (
	"math"
	"sort"

	"github.com/reelfind/reelfind/internal/domain/catalog"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
	"github.com/reelfind/reelfind/internal/domain/search/result"
)

// RankedIndex pairs a catalog row index with its similarity to the query.
type RankedIndex struct {
	Index int
	Score float64
}

// Rank scores every catalog row against the query vector and returns all row
// indices ordered by descending similarity. The sort is stable, so rows with
// equal scores keep catalog order and the ranking is deterministic.
func Rank(query []float32, store *catalog.Store) []RankedIndex {
	ranked := make([]RankedIndex, store.Len())
	for i := range ranked {
		ranked[i] = RankedIndex{Index: i, Score: cosineSimilarity(query, store.Vector(i))}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	return ranked
}

// Select walks the top scanLimit ranked candidates in order, keeps those
// passing the filters, and stops at resultCap matches. Rows ranked below the
// scan window never surface, even when they would pass the filters.
func Select(ranked []RankedIndex, filters filter.Set, store *catalog.Store, scanLimit, resultCap int) []result.Match {
	if scanLimit > len(ranked) {
		scanLimit = len(ranked)
	}

	matches := make([]result.Match, 0, resultCap)
	for _, cand := range ranked[:scanLimit] {
		if len(matches) >= resultCap {
			break
		}
		row := store.Row(cand.Index)
		if filters.Matches(row) {
			matches = append(matches, result.New(cand.Index, row, cand.Score))
		}
	}
	return matches
}

// cosineSimilarity accumulates in float64 to keep scores stable across long
// vectors. Zero-magnitude vectors score 0 rather than NaN.
func cosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
