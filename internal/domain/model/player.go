// Package model contains domain models passed between layers.
package model

import "time"

// Player is a federated AUB player as kept in the club registry.
type Player struct {
	ID        string    // unique id assigned at registration
	FirstName string    // given name, e.g., "Margarita"
	LastName  string    // family name, e.g., "Echenique"
	Handicap  float64   // current club handicap
	Points    float64   // season ranking points accumulated so far
	CNTotals  int       // national championships played
	Category  string    // federation category label
	Active    bool      // inactive players are hidden, never deleted
	CreatedAt time.Time // registration timestamp
}

// FullName returns the display form "First Last".
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}
