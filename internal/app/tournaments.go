package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aubridge/torneos/internal/adapters/repository"
	"github.com/aubridge/torneos/internal/domain/balance"
	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/internal/domain/points"
	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/metrics"
)

// CreateTournament opens a tournament in setup state. The kind picks
// the points table later applied to results.
func (s *Service) CreateTournament(ctx context.Context, name string, date time.Time, kind string) (model.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return model.Tournament{}, fmt.Errorf("tournament needs a name: %w", ErrInvalidInput)
	}
	if !points.Known(kind) {
		return model.Tournament{}, fmt.Errorf("unknown tournament kind %q: %w", kind, ErrInvalidInput)
	}

	t := model.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		Kind:      kind,
		State:     model.StateSetup,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.PutTournament(ctx, t); err != nil {
		return model.Tournament{}, fmt.Errorf("storing tournament: %w", err)
	}

	s.logger.Info(ctx, "tournament created",
		logger.String("tournament", t.ID),
		logger.String("name", t.Name),
		logger.String("kind", t.Kind),
	)
	return t, nil
}

// Tournament returns one tournament by id, pairs and reports included.
func (s *Service) Tournament(ctx context.Context, id string) (model.Tournament, error) {
	return s.store.Tournament(ctx, id)
}

// Tournaments returns all tournaments sorted by id.
func (s *Service) Tournaments(ctx context.Context) ([]model.Tournament, error) {
	return s.store.Tournaments(ctx)
}

// AddPair registers a partnership of two active players. The pair
// handicap is the mean of the player handicaps. Adding a pair to a
// balanced tournament drops the seating back to setup.
func (s *Service) AddPair(ctx context.Context, tournamentID, playerA, playerB string) (model.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, tournamentID)
	if err != nil {
		return model.Pair{}, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}
	if playerA == playerB {
		return model.Pair{}, fmt.Errorf("a pair needs two distinct players: %w", ErrInvalidInput)
	}

	pa, err := s.loadActivePlayer(ctx, playerA)
	if err != nil {
		return model.Pair{}, err
	}
	pb, err := s.loadActivePlayer(ctx, playerB)
	if err != nil {
		return model.Pair{}, err
	}

	for _, pair := range t.Pairs {
		for _, id := range []string{playerA, playerB} {
			if pair.PlayerA == id || pair.PlayerB == id {
				return model.Pair{}, fmt.Errorf("player %s is already seated in pair %d: %w", id, pair.Number, ErrConflict)
			}
		}
	}

	pair := model.Pair{
		ID:       uuid.NewString(),
		Number:   len(t.Pairs) + 1,
		PlayerA:  pa.ID,
		PlayerB:  pb.ID,
		NameA:    pa.FullName(),
		NameB:    pb.FullName(),
		Handicap: round2((pa.Handicap + pb.Handicap) / 2),
	}

	resetSeating(&t)
	t.Pairs = append(t.Pairs, pair)

	if err := s.store.PutTournament(ctx, t); err != nil {
		return model.Pair{}, fmt.Errorf("storing tournament %s: %w", tournamentID, err)
	}
	return pair, nil
}

// RemovePair withdraws a pair. The remaining pairs are renumbered so
// scorecard numbers stay 1..n, and a balanced tournament drops back
// to setup.
func (s *Service) RemovePair(ctx context.Context, tournamentID, pairID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}

	idx := -1
	for i := range t.Pairs {
		if t.Pairs[i].ID == pairID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("pair %s: %w", pairID, repository.ErrNotFound)
	}

	t.Pairs = append(t.Pairs[:idx], t.Pairs[idx+1:]...)
	for i := range t.Pairs {
		t.Pairs[i].Number = i + 1
	}
	resetSeating(&t)

	if err := s.store.PutTournament(ctx, t); err != nil {
		return fmt.Errorf("storing tournament %s: %w", tournamentID, err)
	}
	return nil
}

// BalanceSeating partitions the registered pairs into NS and EO lines
// with handicap averages as even as the pair count allows, then marks
// the tournament balanced. Needs at least two pairs.
func (s *Service) BalanceSeating(ctx context.Context, tournamentID string) (model.Tournament, balance.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, tournamentID)
	if err != nil {
		return model.Tournament{}, balance.Result{}, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}
	if len(t.Pairs) < 2 {
		return model.Tournament{}, balance.Result{}, fmt.Errorf("balancing needs at least two pairs, have %d: %w", len(t.Pairs), ErrConflict)
	}

	rated := make([]model.RatedPair, len(t.Pairs))
	for i, pair := range t.Pairs {
		rated[i] = model.RatedPair{ID: pair.ID, Rating: pair.Handicap}
	}

	start := time.Now()
	res := s.balancer.Balance(rated)
	metrics.RecordBalanceRun()
	metrics.RecordBalanceLatency(float64(time.Since(start).Milliseconds()))
	metrics.ObserveBalanceDifference(res.Difference)

	directions := make(map[string]model.Direction, len(rated))
	for _, p := range res.NS {
		directions[p.ID] = model.DirectionNS
	}
	for _, p := range res.EO {
		directions[p.ID] = model.DirectionEO
	}
	for i := range t.Pairs {
		t.Pairs[i].Direction = directions[t.Pairs[i].ID]
	}
	t.State = model.StateBalanced

	if err := s.store.PutTournament(ctx, t); err != nil {
		return model.Tournament{}, balance.Result{}, fmt.Errorf("storing tournament %s: %w", tournamentID, err)
	}

	s.logger.Info(ctx, "seating balanced",
		logger.String("tournament", t.ID),
		logger.Int("pairs", len(t.Pairs)),
		logger.Float64("difference", res.Difference),
	)
	s.broadcast(t.ID, balanceNotice{
		Event:        "seating_balanced",
		TournamentID: t.ID,
		AvgNS:        res.AvgNS,
		AvgEO:        res.AvgEO,
		Difference:   res.Difference,
	})

	return t, res, nil
}

// ResetSeating clears all seating directions and returns the
// tournament to setup. Resetting an unbalanced tournament is a no-op.
func (s *Service) ResetSeating(ctx context.Context, tournamentID string) (model.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, tournamentID)
	if err != nil {
		return model.Tournament{}, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}

	resetSeating(&t)
	if err := s.store.PutTournament(ctx, t); err != nil {
		return model.Tournament{}, fmt.Errorf("storing tournament %s: %w", tournamentID, err)
	}
	return t, nil
}

// RecordResults enters final positions and percentages by scorecard
// number and credits the pair's players with the AUB points for the
// tournament kind. Re-entering a pair's result replaces the previous
// credit instead of stacking on top of it.
func (s *Service) RecordResults(ctx context.Context, tournamentID string, results []model.PairResult) (model.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.Tournament(ctx, tournamentID)
	if err != nil {
		return model.Tournament{}, fmt.Errorf("loading tournament %s: %w", tournamentID, err)
	}

	for _, row := range results {
		if _, ok := t.PairByNumber(row.PairNumber); !ok {
			return model.Tournament{}, fmt.Errorf("no pair with number %d: %w", row.PairNumber, ErrInvalidInput)
		}
	}

	for _, row := range results {
		pair, _ := t.PairByNumber(row.PairNumber)
		pts := points.ForPosition(row.Position, row.Percentage, t.Kind)
		delta := pts - pair.RankingPoints

		pair.FinalPosition = row.Position
		pair.Percentage = row.Percentage
		pair.RankingPoints = pts

		if err := s.creditPlayer(ctx, pair.PlayerA, delta); err != nil {
			return model.Tournament{}, err
		}
		if err := s.creditPlayer(ctx, pair.PlayerB, delta); err != nil {
			return model.Tournament{}, err
		}
	}

	if err := s.store.PutTournament(ctx, t); err != nil {
		return model.Tournament{}, fmt.Errorf("storing tournament %s: %w", tournamentID, err)
	}

	s.logger.Info(ctx, "results recorded",
		logger.String("tournament", t.ID),
		logger.Int("rows", len(results)),
	)
	return t, nil
}

// loadActivePlayer returns a player that exists and is active.
func (s *Service) loadActivePlayer(ctx context.Context, id string) (model.Player, error) {
	p, err := s.store.Player(ctx, id)
	if err != nil {
		return model.Player{}, fmt.Errorf("loading player %s: %w", id, err)
	}
	if !p.Active {
		return model.Player{}, fmt.Errorf("player %s is inactive: %w", id, ErrInvalidInput)
	}
	return p, nil
}

// resetSeating clears directions and puts the tournament back in
// setup. Pair results are kept.
func resetSeating(t *model.Tournament) {
	t.State = model.StateSetup
	for i := range t.Pairs {
		t.Pairs[i].Direction = model.DirectionNone
	}
}
