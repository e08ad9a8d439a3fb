package repository

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aubridge/torneos/pkg/metrics"
)

// Treap-backed season ranking board.
//
// Ordering: accumulated points DESC, then player id ASC, so an in-order
// traversal walks the board from first place down. Points are stored in
// fixed point so that totals built from many small awards compare
// exactly.

// pointScale keeps six decimal places. Ranking points are awarded in
// halves and hundredths, so season totals are exact at this scale.
const pointScale = 1_000_000

type micropoints int64

func toMicro(x float64) micropoints {
	if math.IsNaN(x) {
		return 0
	}
	if x >= float64(math.MaxInt64)/pointScale {
		return micropoints(math.MaxInt64)
	}
	if x <= float64(math.MinInt64)/pointScale {
		return micropoints(math.MinInt64)
	}
	return micropoints(math.Round(x * pointScale))
}

func toPoints(x micropoints) float64 {
	return float64(x) / pointScale
}

// node is one player in the treap.
type node struct {
	id     string
	points micropoints
	prio   uint64
	left   *node
	right  *node
}

// less reports whether (aPoints, aID) ranks before (bPoints, bID).
func less(aPoints micropoints, aID string, bPoints micropoints, bID string) bool {
	if aPoints != bPoints {
		return aPoints > bPoints
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert(n *node, id string, points micropoints, prio uint64) *node {
	if n == nil {
		return &node{id: id, points: points, prio: prio}
	}
	if less(points, id, n.points, n.id) {
		n.left = insert(n.left, id, points, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, points, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func deleteNode(n *node, id string, points micropoints) *node {
	if n == nil {
		return nil
	}
	if points == n.points && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, points)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, points)
		}
	} else if less(points, id, n.points, n.id) {
		n.left = deleteNode(n.left, id, points)
	} else {
		n.right = deleteNode(n.right, id, points)
	}
	return n
}

// collectTopN appends up to limit entries in board order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{PlayerID: n.id, Points: toPoints(n.points)})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// collectAll appends every entry in board order.
func collectAll(n *node, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, Entry{PlayerID: n.id, Points: toPoints(n.points)})
	collectAll(n.right, out)
}

// assignRanks fills Rank over entries already in board order. Equal
// point totals share a rank and the next distinct total takes the next
// consecutive rank.
func assignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Points != entries[i-1].Points {
			rank++
		}
		entries[i].Rank = rank
	}
}

// Scoreboard is the in-memory season ranking board. It is rebuilt from
// the player store at startup and kept current by the service as
// results land.
type Scoreboard struct {
	mu   sync.RWMutex
	root *node
	byID map[string]micropoints
	rng  *rand.Rand // guarded by mu
}

// NewScoreboard constructs an empty board.
func NewScoreboard(opts ...ScoreboardOption) *Scoreboard {
	b := &Scoreboard{
		byID: make(map[string]micropoints),
		//nolint:gosec // treap priorities, not cryptography
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddPoints adds delta to a player's season total and returns the new
// total. Unknown players start from zero.
func (b *Scoreboard) AddPoints(ctx context.Context, playerID string, delta float64) (float64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreboardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.Lock()
	old, existed := b.byID[playerID]
	next := old + toMicro(delta)
	if existed {
		b.root = deleteNode(b.root, playerID, old)
	}
	b.byID[playerID] = next
	b.root = insert(b.root, playerID, next, b.rng.Uint64())
	size := len(b.byID)
	b.mu.Unlock()

	metrics.UpdateScoreboardPlayers(size)
	return toPoints(next), nil
}

// SetPoints replaces a player's season total. Used to seed the board
// from stored player records and to rewrite totals on re-imports.
func (b *Scoreboard) SetPoints(ctx context.Context, playerID string, points float64) error {
	start := time.Now()
	defer func() {
		metrics.RecordScoreboardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	next := toMicro(points)

	b.mu.Lock()
	if old, existed := b.byID[playerID]; existed {
		if old == next {
			b.mu.Unlock()
			return nil
		}
		b.root = deleteNode(b.root, playerID, old)
	}
	b.byID[playerID] = next
	b.root = insert(b.root, playerID, next, b.rng.Uint64())
	size := len(b.byID)
	b.mu.Unlock()

	metrics.UpdateScoreboardPlayers(size)
	return nil
}

// Remove drops a player from the board, reporting whether they were on
// it. Totals in the player store are untouched.
func (b *Scoreboard) Remove(ctx context.Context, playerID string) bool {
	b.mu.Lock()
	old, existed := b.byID[playerID]
	if existed {
		b.root = deleteNode(b.root, playerID, old)
		delete(b.byID, playerID)
	}
	size := len(b.byID)
	b.mu.Unlock()

	if existed {
		metrics.UpdateScoreboardPlayers(size)
	}
	return existed
}

// Rank returns the board row for one player. Returns ErrNotFound for
// players not on the board.
func (b *Scoreboard) Rank(ctx context.Context, playerID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreboardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.byID[playerID]; !ok {
		metrics.RecordErrorByComponent("scoreboard", "not_found")
		return Entry{}, ErrNotFound
	}

	entries := make([]Entry, 0, len(b.byID))
	collectAll(b.root, &entries)
	assignRanks(entries)

	for _, e := range entries {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// TopN returns the best n rows in board order with shared ranks.
func (b *Scoreboard) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordScoreboardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("scoreboard", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]Entry, 0, n)
	collectTopN(b.root, n, &entries)
	assignRanks(entries)
	return entries, nil
}

// Count returns the number of players on the board.
func (b *Scoreboard) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}
