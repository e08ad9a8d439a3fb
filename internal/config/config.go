// Package config defines the process configuration and its loading
// rules: defaults, an optional YAML file and TORNEOS_ environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory import queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of import workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the report deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ExactLimit is the largest pair count the balancer still
	// partitions by exhaustive search; above it the greedy heuristic
	// takes over.
	ExactLimit int `koanf:"exact_limit"`

	// ReservoirSize caps how many tied optimal partitions are kept
	// for the random pick.
	ReservoirSize int `koanf:"reservoir_size"`

	// MaxSweeps bounds the local-search refinement in greedy mode.
	MaxSweeps int `koanf:"max_sweeps"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// RedisURL selects the Redis-backed store when set, e.g.
	// "redis://localhost:6379/0". Empty keeps the in-memory store.
	RedisURL string `koanf:"redis_url"`

	// Season is the year the ranking reports under.
	Season int `koanf:"season"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       256,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      4096,
		ExactLimit:      22,
		ReservoirSize:   500,
		MaxSweeps:       10_000,
		MaxRankingLimit: 100,
		Season:          time.Now().UTC().Year(),
	}
}

// validate rejects values the service cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	for _, check := range []struct {
		name  string
		value int
	}{
		{"queue_size", c.QueueSize},
		{"worker_count", c.WorkerCount},
		{"dedupe_size", c.DedupeSize},
		{"reservoir_size", c.ReservoirSize},
		{"max_sweeps", c.MaxSweeps},
		{"max_ranking_limit", c.MaxRankingLimit},
		{"season", c.Season},
	} {
		if check.value < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, check.name, check.value)
		}
	}

	if c.ExactLimit < 2 {
		return fmt.Errorf("%w: exact_limit must be at least 2, got %d", ErrInvalidConfig, c.ExactLimit)
	}
	return nil
}
