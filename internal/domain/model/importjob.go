package model

import "time"

// ImportKind selects which report parser an import job runs.
type ImportKind string

const (
	// ImportStandings is a ranks report (final classification).
	ImportStandings ImportKind = "standings"
	// ImportTravellers is a board-by-board traveller report.
	ImportTravellers ImportKind = "travellers"
)

// ImportStatus is the lifecycle of an asynchronous import job.
type ImportStatus string

const (
	ImportQueued ImportStatus = "queued"
	ImportDone   ImportStatus = "done"
	ImportFailed ImportStatus = "failed"
)

// ImportJob is a report upload travelling through the import queue.
type ImportJob struct {
	ID           string
	TournamentID string
	Kind         ImportKind
	Text         string // decoded report text
	Digest       string // sha256 of kind+text, used for idempotency
	Codec        string // codec label the upload decoded with
	Status       ImportStatus
	Error        string // failure reason when Status is ImportFailed
	SubmittedAt  time.Time
	FinishedAt   time.Time

	// Result summary, set when Status is ImportDone.
	RowsImported int
	RowsMatched  int // rows where both players matched the registry
}
