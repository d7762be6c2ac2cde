// Package present renders selected matches as display text.
package present

import (
	"fmt"
	"strings"

	"github.com/reelfind/reelfind/internal/domain/search/result"
)

// NoResultsMessage is the fixed reply when nothing passed selection.
const NoResultsMessage = "No results found."

// descriptionLimit is the number of description characters shown per row.
const descriptionLimit = 200

const placeholder = "N/A"

// Render formats matches into the reply text. Pure function of its input:
// one block per match in the order given, blocks separated by a rule.
func Render(matches []result.Match) string {
	if len(matches) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n")
		}
		row := m.Row()
		fmt.Fprintf(&b, "**%s**\n", row.Title())
		fmt.Fprintf(&b, "Year: %s | Genre: %s\n", row.ReleaseYear(), row.Genres())
		fmt.Fprintf(&b, "Country: %s\n", orPlaceholder(row.Country()))
		fmt.Fprintf(&b, "Director: %s\n", orPlaceholder(row.Director()))
		fmt.Fprintf(&b, "Cast: %s\n", orPlaceholder(row.Cast()))
		fmt.Fprintf(&b, "%s...\n", truncate(row.Description(), descriptionLimit))
		b.WriteString("---\n")
	}
	return b.String()
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// truncate cuts at a rune boundary so multibyte titles never split mid-character.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
