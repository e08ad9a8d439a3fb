// Package roster matches names printed on score reports against the
// player registry.
//
// Matching is deliberately exact: lower-cased, diacritics stripped,
// tried as "first last" and "last first". A misspelling or an extra
// initial simply does not match; precision is preferred over fuzzy
// guesses because points end up on the wrong player otherwise.
package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/aubridge/torneos/internal/domain/model"
)

// Match scans players for one whose full name equals name after
// normalization, in either name order. The first hit wins.
func Match(name string, players []model.Player) (string, bool) {
	want := Fold(name)
	if want == "" {
		return "", false
	}

	for _, p := range players {
		if Fold(p.FirstName+" "+p.LastName) == want {
			return p.ID, true
		}
		if Fold(p.LastName+" "+p.FirstName) == want {
			return p.ID, true
		}
	}
	return "", false
}

// Fold normalizes a name for comparison: invisible characters are
// scrubbed, the text is NFD-decomposed with combining marks removed,
// and the result is lower-cased and trimmed.
func Fold(name string) string {
	name = strings.ReplaceAll(name, "\u00a0", " ") // no-break space
	name = strings.ReplaceAll(name, "\u200b", "")  // zero-width space

	// The chain is built per call: transformers carry internal state
	// and must not be shared across goroutines.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripper, name); err == nil {
		name = folded
	}

	return strings.ToLower(strings.TrimSpace(name))
}
