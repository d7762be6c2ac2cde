package catalog

import "fmt"

// Store holds the catalog rows and their precomputed embedding vectors.
// Built once at startup and read-only afterwards, so concurrent queries can
// share it without locking.
type Store struct {
	rows       []Row
	vectors    [][]float32
	dimensions int
}

// NewStore validates rows against vectors and creates a Store.
func NewStore(rows []Row, vectors [][]float32) (*Store, error) {
	if len(rows) != len(vectors) {
		return nil, fmt.Errorf("row/vector count mismatch: %d rows, %d vectors", len(rows), len(vectors))
	}

	dims := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty vector at row %d", i)
		}
		if dims == 0 {
			dims = len(v)
		} else if len(v) != dims {
			return nil, fmt.Errorf("vector dimension mismatch at row %d: got %d, want %d", i, len(v), dims)
		}
	}

	return &Store{rows: rows, vectors: vectors, dimensions: dims}, nil
}

// Len returns the number of catalog rows.
func (s *Store) Len() int { return len(s.rows) }

// Row returns the row at index i.
func (s *Store) Row(i int) Row { return s.rows[i] }

// Vector returns the embedding vector of row i. Callers must not mutate it.
func (s *Store) Vector(i int) []float32 { return s.vectors[i] }

// Dimensions returns the embedding vector length, 0 for an empty store.
func (s *Store) Dimensions() int { return s.dimensions }
