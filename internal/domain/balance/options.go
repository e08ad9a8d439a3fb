package balance

import "math/rand"

// Option applies a configuration option to the Balancer.
type Option func(*Balancer)

// WithRand sets the random source. Tests inject a seeded source to
// make runs reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(b *Balancer) {
		if rng != nil {
			b.rng = rng
		}
	}
}

// WithExactLimit sets the largest field size solved exhaustively.
// Fields above the limit use the greedy mode. Zero routes everything
// through the greedy mode.
func WithExactLimit(limit int) Option {
	return func(b *Balancer) {
		if limit >= 0 {
			b.exactLimit = limit
		}
	}
}

// WithReservoirSize sets how many tied-optimal partitions are retained
// for the random pick in exhaustive mode.
func WithReservoirSize(size int) Option {
	return func(b *Balancer) {
		if size > 0 {
			b.reservoirSize = size
		}
	}
}

// WithMaxSweeps bounds the local search of the greedy mode. Each sweep
// scans every NS/EO swap once.
func WithMaxSweeps(sweeps int) Option {
	return func(b *Balancer) {
		if sweeps >= 0 {
			b.maxSweeps = sweeps
		}
	}
}
