package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/internal/domain/points"
	"github.com/aubridge/torneos/internal/domain/report"
	"github.com/aubridge/torneos/internal/domain/roster"
	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/metrics"
)

// SubmitImport persists a queued import job and hands it to the
// worker pool. ok is false on backpressure; the job record is then
// already marked failed so the desk can see why nothing arrived.
func (s *Service) SubmitImport(ctx context.Context, tournamentID string, kind model.ImportKind, text, codec, digest string) (model.ImportJob, bool, error) {
	if _, err := s.store.Tournament(ctx, tournamentID); err != nil {
		return model.ImportJob{}, false, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}

	job := model.ImportJob{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		Kind:         kind,
		Text:         text,
		Digest:       digest,
		Codec:        codec,
		Status:       model.ImportQueued,
		SubmittedAt:  time.Now().UTC(),
	}

	// The record goes in before the job does, so the worker never
	// races a missing row when it writes the outcome.
	if err := s.store.PutImportJob(ctx, job); err != nil {
		return model.ImportJob{}, false, fmt.Errorf("storing import job: %w", err)
	}

	if !s.queue.Enqueue(ctx, job) {
		job.Status = model.ImportFailed
		job.Error = "import queue full"
		job.FinishedAt = time.Now().UTC()
		if err := s.store.PutImportJob(ctx, job); err != nil {
			s.logger.Error(ctx, "recording rejected import failed",
				logger.String("job", job.ID),
				logger.Error(err),
			)
		}
		return job, false, nil
	}

	s.logger.Info(ctx, "import queued",
		logger.String("job", job.ID),
		logger.String("tournament", tournamentID),
		logger.String("kind", string(kind)),
		logger.String("codec", codec),
	)
	return job, true, nil
}

// ImportJob returns one import job record by id.
func (s *Service) ImportJob(ctx context.Context, id string) (model.ImportJob, error) {
	return s.store.ImportJob(ctx, id)
}

// TournamentImports returns the jobs submitted for one tournament,
// oldest first.
func (s *Service) TournamentImports(ctx context.Context, tournamentID string) ([]model.ImportJob, error) {
	if _, err := s.store.Tournament(ctx, tournamentID); err != nil {
		return nil, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}
	return s.store.ImportJobs(ctx, tournamentID)
}

// Apply runs one queued import against its tournament. Called from
// the worker pool; the service lock serializes it with desk edits.
func (s *Service) Apply(ctx context.Context, job model.ImportJob) (imported, matched int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, job.TournamentID)
	if err != nil {
		return 0, 0, fmt.Errorf("loading tournament %s: %w", job.TournamentID, err)
	}

	switch job.Kind {
	case model.ImportStandings:
		return s.applyStandings(ctx, &t, job.Text)
	case model.ImportTravellers:
		return s.applyTravellers(ctx, &t, job.Text)
	default:
		return 0, 0, fmt.Errorf("unknown import kind %q", job.Kind)
	}
}

// applyStandings parses a ranks report, matches the printed names
// against the active registry, works out AUB points per row and
// credits the matched players. A re-import replaces the previous
// report, so its credits come back out before the new rows go in.
func (s *Service) applyStandings(ctx context.Context, t *model.Tournament, text string) (int, int, error) {
	st := report.ParseStandings(text)
	if len(st.Rows) == 0 {
		return 0, 0, errors.New("no ranking rows found in report")
	}

	all, err := s.store.Players(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("loading players: %w", err)
	}
	registry := make([]model.Player, 0, len(all))
	for _, p := range all {
		if p.Active {
			registry = append(registry, p)
		}
	}

	if err := s.revertStandingsCredits(ctx, t.Standings); err != nil {
		return 0, 0, err
	}

	matched := 0
	for i := range st.Rows {
		row := &st.Rows[i]
		row.RankingPoints = points.ForPosition(row.Position, row.AdjustedPct, t.Kind)

		if id, ok := roster.Match(row.Name1, registry); ok {
			row.PlayerID1 = id
			if err := s.creditPlayer(ctx, id, row.RankingPoints); err != nil {
				return 0, 0, err
			}
		}
		if id, ok := roster.Match(row.Name2, registry); ok {
			row.PlayerID2 = id
			if err := s.creditPlayer(ctx, id, row.RankingPoints); err != nil {
				return 0, 0, err
			}
		}
		if row.PlayerID1 != "" && row.PlayerID2 != "" {
			matched++
		}
	}
	t.Standings = &st

	// Scorecard numbers tie report rows back to registered pairs for
	// the desk view. Points stay on the players, not the pair.
	for i := range st.Rows {
		if pair, ok := t.PairByNumber(st.Rows[i].PairNumber); ok {
			pair.FinalPosition = st.Rows[i].Position
			pair.Percentage = st.Rows[i].AdjustedPct
		}
	}

	if err := s.store.PutTournament(ctx, *t); err != nil {
		return 0, 0, fmt.Errorf("storing tournament %s: %w", t.ID, err)
	}

	metrics.RecordImportRows(string(model.ImportStandings), len(st.Rows), matched)
	return len(st.Rows), matched, nil
}

// applyTravellers parses a board-by-board report. Standings must have
// been imported first; the check runs at apply time because a
// standings job may still be ahead of this one in the queue.
func (s *Service) applyTravellers(ctx context.Context, t *model.Tournament, text string) (int, int, error) {
	if t.Standings == nil {
		return 0, 0, errors.New("standings must be imported before travellers")
	}

	tr := report.ParseTravellers(text)
	if len(tr.Results) == 0 {
		return 0, 0, errors.New("no traveller rows found in report")
	}
	t.Travellers = &tr

	if err := s.store.PutTournament(ctx, *t); err != nil {
		return 0, 0, fmt.Errorf("storing tournament %s: %w", t.ID, err)
	}

	metrics.RecordImportRows(string(model.ImportTravellers), len(tr.Results), 0)
	return len(tr.Results), 0, nil
}

// revertStandingsCredits takes back the points a previous standings
// import granted, row by row. Safe on nil.
func (s *Service) revertStandingsCredits(ctx context.Context, st *model.Standings) error {
	if st == nil {
		return nil
	}
	for _, row := range st.Rows {
		if row.RankingPoints == 0 {
			continue
		}
		if err := s.creditPlayer(ctx, row.PlayerID1, -row.RankingPoints); err != nil {
			return err
		}
		if err := s.creditPlayer(ctx, row.PlayerID2, -row.RankingPoints); err != nil {
			return err
		}
	}
	return nil
}

// ImportFinished pushes the job outcome to the tournament's live
// subscribers. Runs on the worker goroutine after the job record is
// written.
func (s *Service) ImportFinished(job model.ImportJob) {
	s.broadcast(job.TournamentID, importNotice{
		Event:        "import_finished",
		TournamentID: job.TournamentID,
		JobID:        job.ID,
		Kind:         string(job.Kind),
		Status:       string(job.Status),
		RowsImported: job.RowsImported,
		RowsMatched:  job.RowsMatched,
		Error:        job.Error,
	})
}
