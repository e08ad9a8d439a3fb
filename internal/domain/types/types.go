// Package types contains common types used across the application
package types

// Entry represents one row of the season ranking board
type Entry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name,omitempty"`
	Points   float64 `json:"points"`
}
