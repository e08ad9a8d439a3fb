package model

// RankingRecord is one parsed row of a PairsScorer ranks report.
type RankingRecord struct {
	Position    int     // final rank, ties repeat the number
	PairNumber  int     // scorecard pair number
	Name1       string  // first partner as printed
	Name2       string  // second partner as printed
	Boards      int     // boards actually played
	Total       float64 // raw matchpoint total
	Max         int     // theoretical maximum matchpoints
	Percentage  float64 // raw percentage
	Handicap    float64 // handicap applied by the scorer, may be negative
	AdjustedPct float64 // percentage after handicap

	// Filled by the import pipeline, zero straight out of the parser.
	PlayerID1     string
	PlayerID2     string
	RankingPoints float64
}

// Standings is the full parse of a ranks report.
type Standings struct {
	Title    string
	Session  string
	Tables   int
	Boards   int
	Movement string
	Rows     []RankingRecord
}

// BoardResult is one traveller line: how one NS/EW pairing scored one
// board. ScoreNS and ScoreNSNeg are kept verbatim even when the report
// prints values in both columns; nil means the column was blank.
type BoardResult struct {
	Board      int
	PairNS     int
	PairEW     int
	Contract   string
	Declarer   string // N, S, E or W, "*" suffix stripped
	Lead       string // opening lead, empty when the column is blank
	ScoreNS    *int   // NS+ column
	ScoreNSNeg *int   // NS- column
	MPNS       float64
	MPEW       float64
	NamesNS    string
	NamesEW    string
}

// Travellers is the full parse of a board-by-board report. Results
// keep file order; rows for one board are contiguous in practice but
// nothing here depends on it.
type Travellers struct {
	Title      string
	Session    string
	NeubergTop int // 0 when the report carries no Neuberg line
	Results    []BoardResult
}

// RatedPair is the balancer's view of a pair: an id and the rating the
// partition is balanced on.
type RatedPair struct {
	ID     string
	Rating float64
}
