// Package catalog holds the immutable title catalog: one Row per title plus
// the embedding vector derived from it at build time.
package catalog

import "fmt"

// Raw is one unprocessed record from the catalog source, values as read.
// Missing cells are empty strings.
type Raw struct {
	Title       string
	Genres      string
	Country     string
	ReleaseYear string
	Director    string
	Cast        string
	Description string
}

// Row is one normalized catalog entry. Immutable after construction.
type Row struct {
	title         string
	genres        string
	country       string
	releaseYear   string
	director      string
	cast          string
	description   string
	embeddingText string
}

// NewRow builds a Row from a raw record and derives its embedding text.
func NewRow(raw Raw) Row {
	r := Row{
		title:       raw.Title,
		genres:      raw.Genres,
		country:     raw.Country,
		releaseYear: raw.ReleaseYear,
		director:    raw.Director,
		cast:        raw.Cast,
		description: raw.Description,
	}
	r.embeddingText = fmt.Sprintf(
		"The movie '%s' is a %s title from %s released in %s, directed by %s, starring %s. Description: %s",
		r.title, r.genres, r.country, r.releaseYear, r.director, r.cast, r.description,
	)
	return r
}

// Title returns the title name.
func (r Row) Title() string { return r.title }

// Genres returns the comma-separated genre tags.
func (r Row) Genres() string { return r.genres }

// Country returns the country of origin.
func (r Row) Country() string { return r.country }

// ReleaseYear returns the release year as text.
func (r Row) ReleaseYear() string { return r.releaseYear }

// Director returns the director names.
func (r Row) Director() string { return r.director }

// Cast returns the cast names.
func (r Row) Cast() string { return r.cast }

// Description returns the plot description.
func (r Row) Description() string { return r.description }

// EmbeddingText returns the template sentence the row vector was derived from.
func (r Row) EmbeddingText() string { return r.embeddingText }
