package config

import (
	"errors"
)

// Sentinel kinds for configuration errors, matched with errors.Is.
// ErrInvalidConfig marks values the service cannot run with,
// ErrLoadConfig marks a file or environment read that failed.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
