// Package catalog reads the raw title catalog from a CSV source.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reelfind/reelfind/internal/domain"
	domcat "github.com/reelfind/reelfind/internal/domain/catalog"
)

// Required catalog columns, by their normalized header names.
const (
	colTitle       = "title"
	colGenres      = "listed_in"
	colCountry     = "country"
	colReleaseYear = "release_year"
	colDirector    = "director"
	colCast        = "cast"
	colDescription = "description"
)

var requiredColumns = []string{
	colTitle, colGenres, colCountry, colReleaseYear, colDirector, colCast, colDescription,
}

// Loader reads raw catalog rows from a CSV file.
type Loader struct {
	path string
}

// NewLoader creates a CSV catalog loader.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and normalizes all catalog rows. Any structural problem with the
// source (unreadable file, missing required column) wraps domain.ErrCatalogSource
// so callers can fail fast at startup.
func (l *Loader) Load() ([]domcat.Raw, error) {
	f, err := os.Open(filepath.Clean(l.path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w: %w", l.path, err, domain.ErrCatalogSource)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // source rows may be ragged; cells are resolved by column index

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w: %w", err, domain.ErrCatalogSource)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, domain.ErrCatalogSource)
	}

	var raws []domcat.Raw
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row %d: %w: %w", len(raws)+2, err, domain.ErrCatalogSource)
		}
		raws = append(raws, recordToRaw(record, cols))
	}

	return raws, nil
}

// columnIndexes holds the position of each required column in the header.
type columnIndexes map[string]int

// resolveColumns maps normalized header names (trimmed, lowercased) to indexes.
func resolveColumns(header []string) (columnIndexes, error) {
	cols := make(columnIndexes, len(requiredColumns))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("catalog is missing required column %q", name)
		}
	}
	return cols, nil
}

// recordToRaw extracts a raw row; cells absent from a short record become "".
func recordToRaw(record []string, cols columnIndexes) domcat.Raw {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	return domcat.Raw{
		Title:       cell(colTitle),
		Genres:      cell(colGenres),
		Country:     cell(colCountry),
		ReleaseYear: cell(colReleaseYear),
		Director:    cell(colDirector),
		Cast:        cell(colCast),
		Description: cell(colDescription),
	}
}
