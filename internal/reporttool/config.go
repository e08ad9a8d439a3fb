package reporttool

// Config holds configuration for one report inspection run
type Config struct {
	Path       string // Report file to read
	Type       string // Report type: standings, travellers or auto
	Kind       string // Tournament kind for AUB points, empty skips the points column
	OutputFile string // Output file for the JSON document, empty writes to stdout
	Verbose    bool   // Enable verbose logging
}

// Document is the JSON the tool emits: one parsed report plus the
// context it was read with. Field names match the service API wire
// format so a document diffs cleanly against a live import.
type Document struct {
	File       string         `json:"file"`
	Encoding   string         `json:"encoding"`
	Type       string         `json:"type"`
	Standings  *StandingsDoc  `json:"standings,omitempty"`
	Travellers *TravellersDoc `json:"travellers,omitempty"`
	Summary    Summary        `json:"summary"`
}

// StandingsDoc is the ranks report section of a Document.
type StandingsDoc struct {
	Title     string       `json:"title,omitempty"`
	Session   string       `json:"session,omitempty"`
	Tables    int          `json:"tables,omitempty"`
	Boards    int          `json:"boards,omitempty"`
	Movement  string       `json:"movement,omitempty"`
	Kind      string       `json:"kind,omitempty"`
	KindLabel string       `json:"kind_label,omitempty"`
	Rows      []RankingRow `json:"rows"`
}

// RankingRow is one parsed ranking row, with the AUB points it would
// earn when a tournament kind was given.
type RankingRow struct {
	Position    int      `json:"position"`
	PairNumber  int      `json:"pair_number"`
	Name1       string   `json:"name1"`
	Name2       string   `json:"name2"`
	Boards      int      `json:"boards"`
	Total       float64  `json:"total"`
	Max         int      `json:"max"`
	Percentage  float64  `json:"percentage"`
	Handicap    float64  `json:"handicap"`
	AdjustedPct float64  `json:"adjusted_pct"`
	Points      *float64 `json:"points,omitempty"`
}

// TravellersDoc is the board-by-board section of a Document.
type TravellersDoc struct {
	Title      string     `json:"title,omitempty"`
	Session    string     `json:"session,omitempty"`
	NeubergTop int        `json:"neuberg_top,omitempty"`
	Results    []BoardRow `json:"results"`
}

// BoardRow is one traveller line.
type BoardRow struct {
	Board      int     `json:"board"`
	PairNS     int     `json:"pair_ns"`
	PairEW     int     `json:"pair_ew"`
	Contract   string  `json:"contract,omitempty"`
	Declarer   string  `json:"declarer,omitempty"`
	Lead       string  `json:"lead,omitempty"`
	ScoreNS    *int    `json:"score_ns,omitempty"`
	ScoreNSNeg *int    `json:"score_ns_neg,omitempty"`
	MPNS       float64 `json:"mp_ns"`
	MPEW       float64 `json:"mp_ew"`
	NamesNS    string  `json:"names_ns,omitempty"`
	NamesEW    string  `json:"names_ew,omitempty"`
}

// Summary totals what the parser read, for a quick eyeball before an
// upload to the service.
type Summary struct {
	Rows        int     `json:"rows"`
	Boards      int     `json:"boards,omitempty"`
	TotalPoints float64 `json:"total_points,omitempty"`
}
