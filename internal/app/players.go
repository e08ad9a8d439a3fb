package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/pkg/logger"
)

// CreatePlayer registers a player and puts them on the season ranking
// with zero points. The id, points, active flag and registration
// timestamp are assigned here regardless of what the caller sends.
func (s *Service) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePlayerName(p); err != nil {
		return model.Player{}, err
	}

	p.ID = uuid.NewString()
	p.Points = 0
	p.Active = true
	p.CreatedAt = time.Now().UTC()

	if err := s.store.PutPlayer(ctx, p); err != nil {
		return model.Player{}, fmt.Errorf("storing player: %w", err)
	}
	if err := s.scoreboard.SetPoints(ctx, p.ID, 0); err != nil {
		return model.Player{}, fmt.Errorf("ranking player %s: %w", p.ID, err)
	}

	s.logger.Info(ctx, "player registered",
		logger.String("player", p.ID),
		logger.String("name", p.FullName()),
	)
	return p, nil
}

// UpdatePlayer changes the registry fields of a player: names,
// handicap, category and championship count. Season points, the
// active flag and the registration timestamp are owned by the service
// and never come from the caller.
func (s *Service) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.store.Player(ctx, p.ID)
	if err != nil {
		return model.Player{}, fmt.Errorf("loading player %s: %w", p.ID, err)
	}
	if err := validatePlayerName(p); err != nil {
		return model.Player{}, err
	}

	cur.FirstName = p.FirstName
	cur.LastName = p.LastName
	cur.Handicap = p.Handicap
	cur.Category = p.Category
	cur.CNTotals = p.CNTotals

	if err := s.store.PutPlayer(ctx, cur); err != nil {
		return model.Player{}, fmt.Errorf("storing player %s: %w", p.ID, err)
	}
	return cur, nil
}

// DeactivatePlayer hides a player from rosters and removes them from
// the season ranking. The record keeps its accumulated points.
// Deactivating twice is a no-op.
func (s *Service) DeactivatePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Player(ctx, id)
	if err != nil {
		return fmt.Errorf("loading player %s: %w", id, err)
	}
	if !p.Active {
		return nil
	}

	p.Active = false
	if err := s.store.PutPlayer(ctx, p); err != nil {
		return fmt.Errorf("storing player %s: %w", id, err)
	}
	s.scoreboard.Remove(ctx, id)

	s.logger.Info(ctx, "player deactivated", logger.String("player", id))
	return nil
}

// Player returns one player record by id.
func (s *Service) Player(ctx context.Context, id string) (model.Player, error) {
	return s.store.Player(ctx, id)
}

// Players returns the registry sorted by id. Inactive players are
// skipped unless includeInactive is set.
func (s *Service) Players(ctx context.Context, includeInactive bool) ([]model.Player, error) {
	all, err := s.store.Players(ctx)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return all, nil
	}

	active := make([]model.Player, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func validatePlayerName(p model.Player) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("player needs a first and last name: %w", ErrInvalidInput)
	}
	return nil
}
