package app

import (
	"context"
	"fmt"

	"github.com/aubridge/torneos/internal/domain/types"
)

// TopN returns the first n rows of the season ranking with display
// names attached. Ties share a rank.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.scoreboard.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = types.Entry{
			Rank:     e.Rank,
			PlayerID: e.PlayerID,
			Name:     names[e.PlayerID],
			Points:   e.Points,
		}
	}
	return out, nil
}

// Rank returns the ranking row for one player.
func (s *Service) Rank(ctx context.Context, playerID string) (types.Entry, error) {
	e, err := s.scoreboard.Rank(ctx, playerID)
	if err != nil {
		return types.Entry{}, err
	}

	entry := types.Entry{
		Rank:     e.Rank,
		PlayerID: e.PlayerID,
		Points:   e.Points,
	}
	if p, err := s.store.Player(ctx, playerID); err == nil {
		entry.Name = p.FullName()
	}
	return entry, nil
}

func (s *Service) playerNames(ctx context.Context) (map[string]string, error) {
	players, err := s.store.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.FullName()
	}
	return names, nil
}
