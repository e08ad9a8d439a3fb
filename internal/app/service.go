// Package app provides the tournament administration service that
// implements the dependencies required by the HTTP API: the player
// registry, the tournament desk, asynchronous report imports and the
// season ranking.
package app

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/aubridge/torneos/internal/adapters/mq/queue"
	"github.com/aubridge/torneos/internal/adapters/mq/worker"
	"github.com/aubridge/torneos/internal/adapters/repository"
	"github.com/aubridge/torneos/internal/domain/balance"
	"github.com/aubridge/torneos/internal/domain/dedupe"
	"github.com/aubridge/torneos/pkg/logger"
	"github.com/aubridge/torneos/pkg/metrics"
)

// Broadcaster pushes live notices to the desks subscribed to a
// tournament. The ws hub implements it; a nil broadcaster disables
// notices.
type Broadcaster interface {
	Broadcast(tournamentID string, message any)
}

// Service wires the store, the scoreboard, the import pipeline and the
// seating balancer behind the HTTP API.
//
// mu serializes read-modify-write cycles on store records, including
// the worker pool's import applies. Plain reads go straight to the
// store, which is safe for concurrent use on its own.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	scoreboard  *repository.Scoreboard
	deduper     dedupe.Deduper
	queue       queue.Queue
	pool        *worker.Pool
	balancer    *balance.Balancer
	broadcaster Broadcaster

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	season      int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of import worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the import queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the report deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence backend. The default is the
// in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBroadcaster wires the live update hub.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) {
		s.broadcaster = b
	}
}

// WithBalancer sets a configured seating balancer, typically built
// from the exact_limit and reservoir_size settings.
func WithBalancer(b *balance.Balancer) Option {
	return func(s *Service) {
		if b != nil {
			s.balancer = b
		}
	}
}

// WithSeason sets the season year the ranking reports under.
func WithSeason(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.season = year
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   256,
		dedupeSize:  4096,
		season:      time.Now().UTC().Year(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and launches the import
// worker pool. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting tournament service")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	s.scoreboard = repository.NewScoreboard()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	if s.balancer == nil {
		s.balancer = balance.New()
	}

	// The service itself parses and applies imports; the pool only
	// schedules them.
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store,
		worker.WithNotifier(s),
	)
	s.pool.Start(ctx)

	if err := s.seedScoreboard(ctx); err != nil {
		return fmt.Errorf("seeding season ranking: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "tournament service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("season", s.season),
	)

	return nil
}

// seedScoreboard loads the season points of every active player into
// the ranking board. Run on start so a persistent store survives a
// restart with its ranking intact.
func (s *Service) seedScoreboard(ctx context.Context) error {
	players, err := s.store.Players(ctx)
	if err != nil {
		return fmt.Errorf("loading players: %w", err)
	}

	seeded := 0
	for _, p := range players {
		if !p.Active {
			continue
		}
		if err := s.scoreboard.SetPoints(ctx, p.ID, p.Points); err != nil {
			return fmt.Errorf("seeding player %s: %w", p.ID, err)
		}
		seeded++
	}

	if seeded > 0 {
		s.logger.Info(ctx, "season ranking seeded", logger.Int("players", seeded))
	}
	return nil
}

// Stop gracefully shuts down the service. The queue drains through
// the workers, and the workers take the service lock to apply jobs,
// so the lock is released before waiting on them.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, store := s.pool, s.store
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping tournament service")

	if pool != nil {
		_ = pool.Shutdown(ctx)
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.logger.Info(ctx, "tournament service stopped")
}

// SeenAndRecord atomically checks whether a report digest was seen
// and records it if not. Returns true if the digest was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, digest string) bool {
	seen := s.deduper.SeenAndRecord(ctx, digest)
	if seen {
		metrics.RecordImportDuplicate()
	}
	return seen
}

// Unrecord removes a digest from the seen list so the same report can
// be submitted again, used when a submission fails after the
// idempotency check.
func (s *Service) Unrecord(ctx context.Context, digest string) {
	s.deduper.Unrecord(ctx, digest)
}

// Size returns the current number of digests in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
		"season":       s.season,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		ranked := s.scoreboard.Count(ctx)
		stats["queue_length"] = queueLen
		stats["ranked"] = ranked
		stats["dedupe_entries"] = s.deduper.Size()

		if players, err := s.store.Players(ctx); err == nil {
			stats["players"] = len(players)
			metrics.UpdateTotalPlayers(len(players))
		}
		if tournaments, err := s.store.Tournaments(ctx); err == nil {
			stats["tournaments"] = len(tournaments)
			metrics.UpdateTotalTournaments(len(tournaments))
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// broadcast sends a notice to a tournament's subscribers when a hub
// is wired.
func (s *Service) broadcast(tournamentID string, message any) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(tournamentID, message)
}

// creditPlayer moves delta season points onto a player record and,
// for active players, onto the ranking board. Inactive players keep
// accumulating on the record only. A zero delta or empty id is a
// no-op.
func (s *Service) creditPlayer(ctx context.Context, playerID string, delta float64) error {
	if playerID == "" || delta == 0 {
		return nil
	}

	p, err := s.store.Player(ctx, playerID)
	if err != nil {
		return fmt.Errorf("loading player %s: %w", playerID, err)
	}
	p.Points = round2(p.Points + delta)
	if err := s.store.PutPlayer(ctx, p); err != nil {
		return fmt.Errorf("storing player %s: %w", playerID, err)
	}

	if p.Active {
		if _, err := s.scoreboard.AddPoints(ctx, playerID, delta); err != nil {
			return fmt.Errorf("ranking player %s: %w", playerID, err)
		}
	}
	return nil
}

// round2 rounds to 2 decimals, the resolution of handicaps and
// season points.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
