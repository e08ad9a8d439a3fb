package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aubridge/torneos/internal/domain/model"
)

var (
	boardMarker = regexp.MustCompile(`(?i)BOARD\s+(\d+)`)
	neubergLine = regexp.MustCompile(`(?i)Neuberg\s+Top\s*=\s*(\d+)`)

	// travellerLead pins down the unambiguous left side of a data row:
	// NS pair, EW pair, contract token, declarer letter with an
	// optional star. Everything to the right is column-sliced because
	// Lead, NS+ and NS- can each be independently blank.
	travellerLead = regexp.MustCompile(`(?i)^\s*(\d+)\s+(\d+)\s+(\S+)\s+([NSEW])\*?(?:\s|$)`)

	doubleSpace = regexp.MustCompile(`\s{2,}`)
)

// travellerColumns holds the rune offsets of the sliced columns, read
// off the header row of a traveller report.
type travellerColumns struct {
	lead    int
	nsPlus  int
	nsMinus int
	mpNS    int
	mpEW    int
	namesNS int
	namesEW int

	// hasNames is false when the NS/EW name headers could not be
	// located; names then fall back to a two-space split.
	hasNames bool
}

// ParseTravellers extracts the per-board result rows from a traveller
// report. Rows are only read once a "BOARD n" marker and a column
// header have both been seen; anything before that, and any line that
// fails the leading pattern, is dropped silently.
func ParseTravellers(text string) model.Travellers {
	out := model.Travellers{Results: []model.BoardResult{}}

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
		if m := neubergLine.FindStringSubmatch(line); m != nil {
			out.NeubergTop, _ = strconv.Atoi(m[1])
		}
	}

	board := 0
	var cols travellerColumns
	haveCols := false

	for _, raw := range lines {
		line := normalizeLayout(raw)
		clean := strings.TrimSpace(line)

		if m := boardMarker.FindStringSubmatch(clean); m != nil {
			board, _ = strconv.Atoi(m[1])
			continue
		}
		if strings.Contains(line, "===") || clean == "" {
			continue
		}
		if c, ok := parseTravellerColumns(line); ok {
			cols = c
			haveCols = true
			continue
		}
		if board == 0 || !haveCols {
			continue
		}

		if row, ok := parseTravellerRow(line, board, cols); ok {
			out.Results = append(out.Results, row)
		}
	}

	return out
}

// parseTravellerColumns reads the column offsets from a header row.
// The row must carry the Contract label and at least one of the NS
// score labels to be considered a header at all; the full set of score
// and matchpoint labels must then resolve for the header to be usable.
func parseTravellerColumns(line string) (travellerColumns, bool) {
	if !strings.Contains(line, "Contract") {
		return travellerColumns{}, false
	}
	if !strings.Contains(line, "NS+") && !strings.Contains(line, "NS-") {
		return travellerColumns{}, false
	}

	runes := []rune(line)
	contract := indexRunes(runes, "Contract", 0)
	dec := indexRunes(runes, "Dec", contract)
	lead := indexRunes(runes, "Lead", dec)
	nsPlus := indexRunes(runes, "NS+", lead)
	nsMinus := indexRunes(runes, "NS-", nsPlus)
	if dec < 0 || lead < 0 || nsPlus < 0 || nsMinus < 0 {
		return travellerColumns{}, false
	}

	mpNS := indexRunes(runes, "MP", nsMinus+len("NS-"))
	if mpNS < 0 {
		return travellerColumns{}, false
	}
	mpEW := indexRunes(runes, "MP", mpNS+len("MP"))
	if mpEW < 0 {
		return travellerColumns{}, false
	}

	cols := travellerColumns{
		lead:    lead,
		nsPlus:  nsPlus,
		nsMinus: nsMinus,
		mpNS:    mpNS,
		mpEW:    mpEW,
	}

	if namesNS := indexRunes(runes, "NS", mpEW+len("MP")); namesNS >= 0 {
		if namesEW := indexRunes(runes, "EW", namesNS+len("NS")); namesEW >= 0 {
			cols.namesNS = namesNS
			cols.namesEW = namesEW
			cols.hasNames = true
		}
	}

	return cols, true
}

func parseTravellerRow(line string, board int, cols travellerColumns) (model.BoardResult, bool) {
	m := travellerLead.FindStringSubmatch(line)
	if m == nil {
		return model.BoardResult{}, false
	}

	row := model.BoardResult{
		Board:    board,
		Contract: m[3],
		Declarer: strings.ToUpper(m[4]),
	}
	var err error
	if row.PairNS, err = strconv.Atoi(m[1]); err != nil {
		return model.BoardResult{}, false
	}
	if row.PairEW, err = strconv.Atoi(m[2]); err != nil {
		return model.BoardResult{}, false
	}

	// Short rows are padded so every recorded offset can be sliced.
	runes := []rune(line)
	width := cols.mpEW + 1
	if cols.hasNames {
		width = cols.namesEW + 1
	}
	for len(runes) < width {
		runes = append(runes, ' ')
	}

	row.Lead = sliceColumn(runes, cols.lead, cols.nsPlus)
	row.ScoreNS = optionalInt(sliceColumn(runes, cols.nsPlus, cols.nsMinus))
	row.ScoreNSNeg = optionalInt(sliceColumn(runes, cols.nsMinus, cols.mpNS))

	mpNSText := sliceColumn(runes, cols.mpNS, cols.mpEW)
	var mpEWText string

	if cols.hasNames {
		mpEWText = sliceColumn(runes, cols.mpEW, cols.namesNS)
		row.NamesNS = cleanText(sliceColumn(runes, cols.namesNS, cols.namesEW))
		row.NamesEW = cleanText(sliceColumn(runes, cols.namesEW, len(runes)))
	} else {
		mpEWText, row.NamesNS, row.NamesEW = splitTail(string(runes[cols.mpEW:]))
	}

	if row.MPNS, err = parseDecimal(mpNSText); err != nil {
		return model.BoardResult{}, false
	}
	if row.MPEW, err = parseDecimal(mpEWText); err != nil {
		return model.BoardResult{}, false
	}

	return row, true
}

// splitTail handles rows whose name columns were not announced by the
// header: the first token after the MP-NS column is MP-EW, and the
// remainder splits into the two name fields on a run of 2+ spaces.
func splitTail(tail string) (mpEW, namesNS, namesEW string) {
	tail = strings.TrimSpace(tail)
	cut := strings.IndexAny(tail, " \t")
	if cut < 0 {
		return tail, "", ""
	}

	mpEW = tail[:cut]
	parts := doubleSpace.Split(strings.TrimSpace(tail[cut:]), -1)
	if len(parts) > 0 {
		namesNS = cleanText(parts[0])
	}
	if len(parts) > 1 {
		namesEW = cleanText(parts[1])
	}
	return mpEW, namesNS, namesEW
}

// sliceColumn extracts the half-open rune range [start, end), trimmed.
func sliceColumn(runes []rune, start, end int) string {
	if start < 0 || start >= len(runes) {
		return ""
	}
	if end > len(runes) || end < start {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// optionalInt reads a sliced numeric cell; blank or non-numeric cells
// count as absent.
func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// indexRunes finds needle in haystack at or after the from offset,
// returning a rune offset or -1.
func indexRunes(haystack []rune, needle string, from int) int {
	n := []rune(needle)
	if from < 0 {
		from = 0
	}
	for i := from; i+len(n) <= len(haystack); i++ {
		match := true
		for j := range n {
			if haystack[i+j] != n[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
