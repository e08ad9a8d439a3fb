// Package report parses the two PairsScorer export formats: the final
// ranks report and the board-by-board traveller report. Both parsers
// are best-effort: real exports carry decorative separators, footers
// and the occasional mangled line, so anything that does not look like
// a data row is skipped silently rather than reported as an error.
package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aubridge/torneos/internal/domain/model"
)

// metadataScanLines bounds the header scan; the interesting lines sit
// at the very top of both report formats.
const metadataScanLines = 10

var (
	// standingsRow captures, in order: rank, pair number, the pair
	// names, boards played, total, max, raw percentage, an optional
	// parenthesized sub-rank that is discarded, handicap, adjusted
	// percentage. Decimals may use commas.
	standingsRow = regexp.MustCompile(
		`^\s*(\d+)\s+(\d+)\s+(.+?)\s+(\d+)\s+([\d,.]+)\s+(\d+)\s+([\d,.]+)(?:\s*\(\d+\))?\s*([-\d,.]+)\s+([\d,.]+)`)

	// tableBoardLine matches "5 Table 27 Board Howell Movement".
	tableBoardLine = regexp.MustCompile(`(?i)(\d+)\s*Tables?\s+(\d+)\s*Boards?\s+(\w+)`)
)

// ParseStandings extracts event metadata and the ranking rows from a
// ranks report. Rows that do not match the expected shape are ignored.
func ParseStandings(text string) model.Standings {
	out := model.Standings{Rows: []model.RankingRecord{}}

	lines := splitLines(text)
	if len(lines) == 0 {
		return out
	}
	out.Title = cleanText(lines[0])

	for i, raw := range lines {
		if i >= metadataScanLines {
			break
		}
		line := cleanText(raw)
		if strings.HasPrefix(strings.ToLower(line), "session") {
			out.Session = line
		}
		if m := tableBoardLine.FindStringSubmatch(line); m != nil {
			out.Tables, _ = strconv.Atoi(m[1])
			out.Boards, _ = strconv.Atoi(m[2])
			out.Movement = m[3]
		}
	}

	for _, raw := range lines {
		clean := cleanText(raw)
		if strings.Contains(raw, "===") || clean == "" {
			continue
		}
		if strings.Contains(raw, "Rank") && strings.Contains(raw, "Pair") {
			continue
		}
		if strings.Contains(strings.ToLower(raw), "printed") {
			continue
		}

		m := standingsRow.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		if row, ok := buildRankingRecord(m); ok {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

func buildRankingRecord(m []string) (model.RankingRecord, bool) {
	var (
		row model.RankingRecord
		err error
	)

	if row.Position, err = strconv.Atoi(m[1]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.PairNumber, err = strconv.Atoi(m[2]); err != nil {
		return model.RankingRecord{}, false
	}
	row.Name1, row.Name2 = splitPairNames(m[3])
	if row.Boards, err = strconv.Atoi(m[4]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.Total, err = parseDecimal(m[5]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.Max, err = strconv.Atoi(m[6]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.Percentage, err = parseDecimal(m[7]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.Handicap, err = parseDecimal(m[8]); err != nil {
		return model.RankingRecord{}, false
	}
	if row.AdjustedPct, err = parseDecimal(m[9]); err != nil {
		return model.RankingRecord{}, false
	}

	return row, true
}
