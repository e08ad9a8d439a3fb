// Package repository provides persistence for players, tournaments and
// import jobs, plus the season ranking scoreboard.
package repository

import (
	"context"

	"github.com/aubridge/torneos/internal/domain/model"
)

// Entry represents one row of the season ranking board.
type Entry struct {
	Rank     int
	PlayerID string
	Points   float64
}

// Store provides read/write access to tournament administration state.
// List methods return entries sorted by id so output is stable across
// implementations.
type Store interface {
	// PutPlayer inserts or replaces a player record.
	PutPlayer(ctx context.Context, p model.Player) error
	// Player returns a player by id. Returns ErrNotFound if unknown.
	Player(ctx context.Context, id string) (model.Player, error)
	// Players returns all player records, active or not.
	Players(ctx context.Context) ([]model.Player, error)

	// PutTournament inserts or replaces a tournament, including its
	// pairs and any imported reports.
	PutTournament(ctx context.Context, t model.Tournament) error
	// Tournament returns a tournament by id. Returns ErrNotFound if unknown.
	Tournament(ctx context.Context, id string) (model.Tournament, error)
	// Tournaments returns all tournament records.
	Tournaments(ctx context.Context) ([]model.Tournament, error)

	// PutImportJob inserts or replaces an import job status record.
	PutImportJob(ctx context.Context, j model.ImportJob) error
	// ImportJob returns an import job by id. Returns ErrNotFound if unknown.
	ImportJob(ctx context.Context, id string) (model.ImportJob, error)
	// ImportJobs returns the jobs submitted for one tournament, oldest
	// first.
	ImportJobs(ctx context.Context, tournamentID string) ([]model.ImportJob, error)
}
