package report

import (
	"strconv"
	"strings"
)

// cleanText trims a field and scrubs the invisible characters PairsScorer
// exports tend to carry (non-breaking spaces, zero-width spaces).
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ") // no-break space
	s = strings.ReplaceAll(s, "\u200b", "")  // zero-width space
	return strings.TrimSpace(s)
}

// normalizeLayout scrubs the same characters without trimming, so
// column offsets within the line stay meaningful.
func normalizeLayout(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.ReplaceAll(s, "\u200b", "")
}

// parseDecimal reads a number that may use a comma as decimal separator.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// splitPairNames breaks "First Last & First Last" on the first
// ampersand. A field without an ampersand comes back whole, with an
// empty second name.
func splitPairNames(s string) (string, string) {
	s = cleanText(s)
	if i := strings.Index(s, "&"); i >= 0 {
		return cleanText(s[:i]), cleanText(s[i+1:])
	}
	return s, ""
}

// splitLines breaks report text into lines, dropping surrounding blank
// lines and any carriage returns left by Windows exports.
func splitLines(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
