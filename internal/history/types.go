// Package history records finished blackjack rounds as TOML.
//
// Each game gets one file holding an array of [[rounds]] tables. Records are
// appended, so a file can be tailed while a game is in progress.
package history

import "time"

// Log is the decoded contents of a history file
type Log struct {
	Rounds []Round `toml:"rounds"`
}

// Round is one settled round
type Round struct {
	Game           string    `toml:"game"`
	Time           time.Time `toml:"time"`
	RunningCount   int       `toml:"running_count"`
	TrueCount      float64   `toml:"true_count"`
	CardsRemaining int       `toml:"cards_remaining"`
	Dealer         Dealer    `toml:"dealer"`
	Seats          []Seat    `toml:"seats"`
}

// Dealer is the dealer's final hand
type Dealer struct {
	Cards  []string `toml:"cards"`
	Value  int      `toml:"value"`
	Busted bool     `toml:"busted"`
}

// Seat is one player's final hand and result
type Seat struct {
	Position int      `toml:"position"`
	Name     string   `toml:"name"`
	Role     string   `toml:"role"`
	Cards    []string `toml:"cards"`
	Value    int      `toml:"value"`
	Result   string   `toml:"result"`
}
