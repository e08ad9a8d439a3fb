package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/aubridge/torneos/internal/domain/model"
)

// MemoryStore is the default Store: mutex-guarded maps. Values are
// cloned on the way in and out so callers never share slices with the
// store.
type MemoryStore struct {
	mu          sync.RWMutex
	players     map[string]model.Player
	tournaments map[string]model.Tournament
	imports     map[string]model.ImportJob
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:     make(map[string]model.Player),
		tournaments: make(map[string]model.Tournament),
		imports:     make(map[string]model.ImportJob),
	}
}

func (s *MemoryStore) PutPlayer(_ context.Context, p model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
	return nil
}

func (s *MemoryStore) Player(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Players(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) PutTournament(_ context.Context, t model.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = cloneTournament(t)
	return nil
}

func (s *MemoryStore) Tournament(_ context.Context, id string) (model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return model.Tournament{}, ErrNotFound
	}
	return cloneTournament(t), nil
}

func (s *MemoryStore) Tournaments(_ context.Context) ([]model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, cloneTournament(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) PutImportJob(_ context.Context, j model.ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imports[j.ID] = j
	return nil
}

func (s *MemoryStore) ImportJob(_ context.Context, id string) (model.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.imports[id]
	if !ok {
		return model.ImportJob{}, ErrNotFound
	}
	return j, nil
}

func (s *MemoryStore) ImportJobs(_ context.Context, tournamentID string) ([]model.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ImportJob, 0, 4)
	for _, j := range s.imports {
		if j.TournamentID == tournamentID {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// cloneTournament copies a tournament deeply enough that the caller and
// the store never alias pairs or report rows.
func cloneTournament(t model.Tournament) model.Tournament {
	out := t
	if t.Pairs != nil {
		out.Pairs = make([]model.Pair, len(t.Pairs))
		copy(out.Pairs, t.Pairs)
	}
	if t.Standings != nil {
		st := *t.Standings
		st.Rows = make([]model.RankingRecord, len(t.Standings.Rows))
		copy(st.Rows, t.Standings.Rows)
		out.Standings = &st
	}
	if t.Travellers != nil {
		tr := *t.Travellers
		tr.Results = make([]model.BoardResult, len(t.Travellers.Results))
		for i, r := range t.Travellers.Results {
			r.ScoreNS = cloneIntPtr(r.ScoreNS)
			r.ScoreNSNeg = cloneIntPtr(r.ScoreNSNeg)
			tr.Results[i] = r
		}
		out.Travellers = &tr
	}
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
