package app

// Notices are the JSON payloads pushed over the live update socket.
// Field names follow the API's snake_case convention.

// importNotice reports a finished import job, success or failure.
type importNotice struct {
	Event        string `json:"event"`
	TournamentID string `json:"tournament_id"`
	JobID        string `json:"job_id"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	RowsImported int    `json:"rows_imported"`
	RowsMatched  int    `json:"rows_matched"`
	Error        string `json:"error,omitempty"`
}

// balanceNotice reports a fresh seating balance.
type balanceNotice struct {
	Event        string  `json:"event"`
	TournamentID string  `json:"tournament_id"`
	AvgNS        float64 `json:"avg_ns"`
	AvgEO        float64 `json:"avg_eo"`
	Difference   float64 `json:"difference"`
}
