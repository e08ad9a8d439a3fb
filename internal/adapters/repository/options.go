package repository

import "math/rand"

// ScoreboardOption applies a configuration option to the Scoreboard.
type ScoreboardOption func(*Scoreboard)

// WithSeed fixes the treap priority sequence. Tests use this; the
// board's ordering does not depend on it.
func WithSeed(seed int64) ScoreboardOption {
	return func(b *Scoreboard) {
		b.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // treap priorities, not cryptography
	}
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key the store writes. Useful when one
// Redis serves several deployments.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}
