package repository

import "errors"

// Sentinel kinds for store and scoreboard errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
