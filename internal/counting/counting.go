// Package counting tracks the Hi-Lo count over the cards revealed this
// round.
package counting

import (
	"fmt"
	"math"

	"github.com/lox/blackjack/internal/deck"
)

const cardsPerDeck = 52

// Advantage is who the true count favours
type Advantage string

const (
	AdvantagePlayer  Advantage = "player"
	AdvantageHouse   Advantage = "house"
	AdvantageNeutral Advantage = "neutral"
)

// Thresholds on the true count, inclusive
const (
	PlayerThreshold = 2.0
	HouseThreshold  = -2.0
)

// Advice is the count-based read on the shoe
type Advice struct {
	Advantage Advantage `json:"advantage"`
	Message   string    `json:"message"`
}

// Summary is a point-in-time view of the count
type Summary struct {
	RunningCount   int               `json:"running_count"`
	TrueCount      float64           `json:"true_count"`
	DecksRemaining float64           `json:"decks_remaining"`
	CardsRemaining int               `json:"cards_remaining"`
	Advice         Advice            `json:"advice"`
	Breakdown      map[deck.Rank]int `json:"breakdown"`

	revealed []deck.Card
}

// Summarize computes the count over the revealed cards given the number of
// cards left in the shoe.
func Summarize(revealed []deck.Card, remaining int) Summary {
	running := RunningCount(revealed)
	decks := DecksRemaining(remaining)
	tc := TrueCount(running, decks)

	c := make([]deck.Card, len(revealed))
	copy(c, revealed)

	return Summary{
		RunningCount:   running,
		TrueCount:      tc,
		DecksRemaining: decks,
		CardsRemaining: max(remaining, 0),
		Advice:         AdviceFor(tc),
		Breakdown:      Breakdown(revealed),
		revealed:       c,
	}
}

// Recent returns up to limit of the most recently revealed cards, oldest
// first.
func (s Summary) Recent(limit int) []deck.Card {
	if limit <= 0 {
		return []deck.Card{}
	}
	start := max(len(s.revealed)-limit, 0)
	c := make([]deck.Card, len(s.revealed)-start)
	copy(c, s.revealed[start:])
	return c
}

// RunningCount sums the Hi-Lo values of the cards
func RunningCount(cards []deck.Card) int {
	count := 0
	for _, c := range cards {
		count += c.HiLo()
	}
	return count
}

// DecksRemaining converts a card count into decks, to one decimal place
func DecksRemaining(remaining int) float64 {
	return round1(float64(remaining) / cardsPerDeck)
}

// TrueCount divides the running count by the decks remaining, to one decimal
// place. With no decks left the true count is 0.
func TrueCount(running int, decksRemaining float64) float64 {
	if decksRemaining <= 0 {
		return 0
	}
	return round1(float64(running) / decksRemaining)
}

// AdviceFor describes who the true count favours
func AdviceFor(trueCount float64) Advice {
	switch {
	case trueCount >= PlayerThreshold:
		return Advice{
			Advantage: AdvantagePlayer,
			Message:   fmt.Sprintf("Favorable count (+%.1f). The deck is rich in high cards.", trueCount),
		}
	case trueCount <= HouseThreshold:
		return Advice{
			Advantage: AdvantageHouse,
			Message:   fmt.Sprintf("Unfavorable count (%.1f). The deck is depleted of high cards.", trueCount),
		}
	default:
		return Advice{
			Advantage: AdvantageNeutral,
			Message:   fmt.Sprintf("Neutral count (%.1f). Standard play recommended.", trueCount),
		}
	}
}

// Breakdown counts how many of each rank have been revealed
func Breakdown(cards []deck.Card) map[deck.Rank]int {
	seen := make(map[deck.Rank]int)
	for _, c := range cards {
		seen[c.Rank]++
	}
	return seen
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
