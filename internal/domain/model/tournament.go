package model

import "time"

// Direction is the table line a pair sits in a Mitchell movement.
type Direction string

// Seating directions. Unseated pairs carry DirectionNone until the
// tournament is balanced. EO follows the federation's printed cards
// (Este-Oeste).
const (
	DirectionNone Direction = ""
	DirectionNS   Direction = "NS"
	DirectionEO   Direction = "EO"
)

// TournamentState tracks the lifecycle of a tournament.
type TournamentState string

const (
	// StateSetup means pairs may still join or leave.
	StateSetup TournamentState = "setup"
	// StateBalanced means seating directions have been assigned.
	StateBalanced TournamentState = "balanced"
)

// Pair is a partnership registered in one tournament.
type Pair struct {
	ID        string
	Number    int     // table number as printed on scorecards, 1-based
	PlayerA   string  // player id
	PlayerB   string  // player id
	NameA     string  // denormalized for reports
	NameB     string
	Handicap  float64 // mean of the two player handicaps, 2 decimals
	Direction Direction

	// Result fields, filled by manual entry or a standings import.
	FinalPosition int
	Percentage    float64
	RankingPoints float64
}

// Tournament is a single club session with its registered pairs.
type Tournament struct {
	ID        string
	Name      string
	Date      time.Time
	Kind      string // points-table kind, see the points package
	State     TournamentState
	Pairs     []Pair
	CreatedAt time.Time

	// Standings holds the last imported ranks report, nil before import.
	Standings *Standings
	// Travellers holds the last imported board-by-board report, nil
	// before import. Requires Standings to be present first.
	Travellers *Travellers
}

// PairByNumber returns the pair with the given scorecard number.
func (t *Tournament) PairByNumber(n int) (*Pair, bool) {
	for i := range t.Pairs {
		if t.Pairs[i].Number == n {
			return &t.Pairs[i], true
		}
	}
	return nil, false
}

// PairResult is one manually entered result row for a pair.
type PairResult struct {
	PairNumber int     // scorecard number of the pair
	Position   int     // final classification, 1-based
	Percentage float64 // final percentage, 0..100
}
