// Package filter holds the per-query soft filter set extracted from free text.
package filter

import (
	"strings"

	"github.com/reelfind/reelfind/internal/domain/catalog"
)

// Set is the optional constraints extracted from one query. Every field is
// optional; an unset field imposes no constraint. Discarded after the query.
type Set struct {
	genres  []string
	year    string
	country string
	person  string
}

// New creates a filter Set. Empty strings mean "no constraint".
func New(genres []string, year, country, person string) Set {
	return Set{genres: genres, year: year, country: country, person: person}
}

// Genres returns the matched genre keywords.
func (s Set) Genres() []string { return s.genres }

// Year returns the year hint, empty when unset.
func (s Set) Year() string { return s.year }

// Country returns the country hint, empty when unset.
func (s Set) Country() string { return s.country }

// Person returns the person hint, empty when unset.
func (s Set) Person() string { return s.person }

// IsEmpty reports whether the set imposes no constraint at all.
func (s Set) IsEmpty() bool {
	return len(s.genres) == 0 && s.year == "" && s.country == "" && s.person == ""
}

// Matches evaluates all four soft predicates against a catalog row.
// Each predicate defaults to true when its hint is unset; matching is
// case-insensitive substring containment throughout. Substring semantics are
// the product behavior, not an approximation of exact matching.
func (s Set) Matches(row catalog.Row) bool {
	return s.matchGenre(row) && s.matchCountry(row) && s.matchYear(row) && s.matchPerson(row)
}

// matchGenre holds when any extracted keyword appears in the row genres.
func (s Set) matchGenre(row catalog.Row) bool {
	if len(s.genres) == 0 {
		return true
	}
	rowGenres := strings.ToLower(row.Genres())
	for _, g := range s.genres {
		if strings.Contains(rowGenres, strings.ToLower(g)) {
			return true
		}
	}
	return false
}

func (s Set) matchCountry(row catalog.Row) bool {
	if s.country == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.Country()), strings.ToLower(s.country))
}

func (s Set) matchYear(row catalog.Row) bool {
	if s.year == "" {
		return true
	}
	return strings.Contains(row.ReleaseYear(), s.year)
}

// matchPerson holds when the person appears in either the cast or the director field.
func (s Set) matchPerson(row catalog.Row) bool {
	if s.person == "" {
		return true
	}
	person := strings.ToLower(s.person)
	return strings.Contains(strings.ToLower(row.Cast()), person) ||
		strings.Contains(strings.ToLower(row.Director()), person)
}
