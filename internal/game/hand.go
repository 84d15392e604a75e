package game

import (
	"slices"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered sequence of cards in deal order. Order never affects the
// value, but it identifies the dealer's up card and hole card.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding the given cards
func NewHand(cards ...deck.Card) Hand {
	h := Hand{cards: make([]deck.Card, len(cards))}
	copy(h.cards, cards)
	return h
}

// Add appends a card to the hand
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Clear empties the hand
func (h *Hand) Clear() {
	h.cards = nil
}

// Cards returns a copy of the cards in deal order
func (h Hand) Cards() []deck.Card {
	c := make([]deck.Card, len(h.cards))
	copy(c, h.cards)
	return c
}

// Card returns the i-th dealt card
func (h Hand) Card(i int) (deck.Card, bool) {
	if i < 0 || i >= len(h.cards) {
		return deck.Card{}, false
	}
	return h.cards[i], true
}

// Len returns the number of cards
func (h Hand) Len() int {
	return len(h.cards)
}

// Empty reports whether the hand holds no cards
func (h Hand) Empty() bool {
	return len(h.cards) == 0
}

// HasAce reports whether any card is an ace
func (h Hand) HasAce() bool {
	return slices.ContainsFunc(h.cards, deck.Card.IsAce)
}

// HardTotal counts every ace as 1
func (h Hand) HardTotal() int {
	total := 0
	for _, c := range h.cards {
		if c.IsAce() {
			total++
		} else {
			total += c.Value()
		}
	}
	return total
}

// PossibleValues returns every attainable total, sorted ascending. Each ace
// forks the running totals into +1 and +11 branches.
func (h Hand) PossibleValues() []int {
	values := []int{0}
	for _, c := range h.cards {
		if c.IsAce() {
			next := make([]int, 0, len(values)*2)
			for _, v := range values {
				next = append(next, v+1, v+11)
			}
			values = next
		} else {
			for i := range values {
				values[i] += c.Value()
			}
		}
		slices.Sort(values)
		values = slices.Compact(values)
	}
	return values
}

// BestValue returns the highest total that does not bust, or the lowest total
// when every combination busts.
func (h Hand) BestValue() int {
	values := h.PossibleValues()
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] <= 21 {
			return values[i]
		}
	}
	return values[0]
}

// Soft reports whether an ace is counted as 11 in the best value
func (h Hand) Soft() bool {
	if !h.HasAce() {
		return false
	}
	soft := h.HardTotal() + 10
	return soft <= 21 && soft == h.BestValue()
}

// Busted reports whether the best value exceeds 21
func (h Hand) Busted() bool {
	return h.BestValue() > 21
}

// Blackjack reports a natural: exactly two cards worth 21
func (h Hand) Blackjack() bool {
	return len(h.cards) == 2 && h.BestValue() == 21
}

// String returns the cards separated by spaces (e.g. "A♥ K♠")
func (h Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
