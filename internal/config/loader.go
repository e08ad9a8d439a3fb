package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file and env
// vars. Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if TORNEOS_CONFIG is set
//  3. env (prefix TORNEOS_)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("TORNEOS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: TORNEOS_ADDR, TORNEOS_QUEUE_SIZE, ...
	// Map env keys like TORNEOS_QUEUE_SIZE -> queue_size so they line
	// up with the koanf tags on the struct.
	envProvider := env.Provider("TORNEOS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "torneos_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: reading environment: %w", ErrLoadConfig, err)
	}

	// Unmarshal over a copy of the defaults
	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
