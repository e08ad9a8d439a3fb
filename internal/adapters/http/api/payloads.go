package api

import (
	"time"

	"github.com/aubridge/torneos/internal/domain/model"
)

// Response shapes mirror the OpenAPI schemas. Domain models stay free
// of transport tags; the converters here own the JSON field names.

type playerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Handicap  float64   `json:"handicap"`
	Points    float64   `json:"points"`
	CNTotals  int       `json:"cn_totals"`
	Category  string    `json:"category,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toPlayerResponse(p model.Player) playerResponse {
	return playerResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Handicap:  p.Handicap,
		Points:    p.Points,
		CNTotals:  p.CNTotals,
		Category:  p.Category,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}

func toPlayerResponses(players []model.Player) []playerResponse {
	out := make([]playerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerResponse(p))
	}
	return out
}

type pairResponse struct {
	ID            string  `json:"id"`
	Number        int     `json:"number"`
	PlayerA       string  `json:"player_a"`
	PlayerB       string  `json:"player_b"`
	NameA         string  `json:"name_a"`
	NameB         string  `json:"name_b"`
	Handicap      float64 `json:"handicap"`
	Direction     string  `json:"direction,omitempty"`
	FinalPosition int     `json:"final_position,omitempty"`
	Percentage    float64 `json:"percentage,omitempty"`
	RankingPoints float64 `json:"ranking_points,omitempty"`
}

func toPairResponse(p model.Pair) pairResponse {
	return pairResponse{
		ID:            p.ID,
		Number:        p.Number,
		PlayerA:       p.PlayerA,
		PlayerB:       p.PlayerB,
		NameA:         p.NameA,
		NameB:         p.NameB,
		Handicap:      p.Handicap,
		Direction:     string(p.Direction),
		FinalPosition: p.FinalPosition,
		Percentage:    p.Percentage,
		RankingPoints: p.RankingPoints,
	}
}

type tournamentResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Date       string              `json:"date"`
	Kind       string              `json:"kind"`
	State      string              `json:"state"`
	Pairs      []pairResponse      `json:"pairs"`
	Standings  *standingsResponse  `json:"standings,omitempty"`
	Travellers *travellersResponse `json:"travellers,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toTournamentResponse(t model.Tournament) tournamentResponse {
	pairs := make([]pairResponse, 0, len(t.Pairs))
	for _, p := range t.Pairs {
		pairs = append(pairs, toPairResponse(p))
	}
	return tournamentResponse{
		ID:         t.ID,
		Name:       t.Name,
		Date:       t.Date.Format("2006-01-02"),
		Kind:       t.Kind,
		State:      string(t.State),
		Pairs:      pairs,
		Standings:  toStandingsResponse(t.Standings),
		Travellers: toTravellersResponse(t.Travellers),
		CreatedAt:  t.CreatedAt,
	}
}

type rankingRowResponse struct {
	Position      int     `json:"position"`
	PairNumber    int     `json:"pair_number"`
	Name1         string  `json:"name1"`
	Name2         string  `json:"name2"`
	Boards        int     `json:"boards"`
	Total         float64 `json:"total"`
	Max           int     `json:"max"`
	Percentage    float64 `json:"percentage"`
	Handicap      float64 `json:"handicap"`
	AdjustedPct   float64 `json:"adjusted_pct"`
	PlayerID1     string  `json:"player_id1,omitempty"`
	PlayerID2     string  `json:"player_id2,omitempty"`
	RankingPoints float64 `json:"ranking_points"`
}

type standingsResponse struct {
	Title    string               `json:"title,omitempty"`
	Session  string               `json:"session,omitempty"`
	Tables   int                  `json:"tables,omitempty"`
	Boards   int                  `json:"boards,omitempty"`
	Movement string               `json:"movement,omitempty"`
	Rows     []rankingRowResponse `json:"rows"`
}

func toStandingsResponse(s *model.Standings) *standingsResponse {
	if s == nil {
		return nil
	}
	rows := make([]rankingRowResponse, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, rankingRowResponse{
			Position:      r.Position,
			PairNumber:    r.PairNumber,
			Name1:         r.Name1,
			Name2:         r.Name2,
			Boards:        r.Boards,
			Total:         r.Total,
			Max:           r.Max,
			Percentage:    r.Percentage,
			Handicap:      r.Handicap,
			AdjustedPct:   r.AdjustedPct,
			PlayerID1:     r.PlayerID1,
			PlayerID2:     r.PlayerID2,
			RankingPoints: r.RankingPoints,
		})
	}
	return &standingsResponse{
		Title:    s.Title,
		Session:  s.Session,
		Tables:   s.Tables,
		Boards:   s.Boards,
		Movement: s.Movement,
		Rows:     rows,
	}
}

type boardRowResponse struct {
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

type travellersResponse struct {
	Title      string             `json:"title,omitempty"`
	Session    string             `json:"session,omitempty"`
	NeubergTop int                `json:"neuberg_top,omitempty"`
	Results    []boardRowResponse `json:"results"`
}

func toTravellersResponse(t *model.Travellers) *travellersResponse {
	if t == nil {
		return nil
	}
	results := make([]boardRowResponse, 0, len(t.Results))
	for _, r := range t.Results {
		results = append(results, boardRowResponse{
			Board:      r.Board,
			PairNS:     r.PairNS,
			PairEW:     r.PairEW,
			Contract:   r.Contract,
			Declarer:   r.Declarer,
			Lead:       r.Lead,
			ScoreNS:    r.ScoreNS,
			ScoreNSNeg: r.ScoreNSNeg,
			MPNS:       r.MPNS,
			MPEW:       r.MPEW,
			NamesNS:    r.NamesNS,
			NamesEW:    r.NamesEW,
		})
	}
	return &travellersResponse{
		Title:      t.Title,
		Session:    t.Session,
		NeubergTop: t.NeubergTop,
		Results:    results,
	}
}

type jobResponse struct {
	ID           string     `json:"id"`
	TournamentID string     `json:"tournament_id"`
	Kind         string     `json:"kind"`
	Codec        string     `json:"codec,omitempty"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	RowsImported int        `json:"rows_imported"`
	RowsMatched  int        `json:"rows_matched"`
}

func toJobResponse(j model.ImportJob) jobResponse {
	resp := jobResponse{
		ID:           j.ID,
		TournamentID: j.TournamentID,
		Kind:         string(j.Kind),
		Codec:        j.Codec,
		Status:       string(j.Status),
		Error:        j.Error,
		SubmittedAt:  j.SubmittedAt,
		RowsImported: j.RowsImported,
		RowsMatched:  j.RowsMatched,
	}
	if !j.FinishedAt.IsZero() {
		finished := j.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}

func toJobResponses(jobs []model.ImportJob) []jobResponse {
	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}
	return out
}
