package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cards     string
		value     int
		soft      bool
		busted    bool
		blackjack bool
	}{
		{"empty", "", 0, false, false, false},
		{"two aces and a nine", "AH AS 9C", 21, true, false, false},
		{"natural", "AH KS", 21, true, false, true},
		{"three sevens", "7H 7S 7C", 21, false, false, false},
		{"soft seventeen", "AH 6C", 17, true, false, false},
		{"ace forced low", "AH 6C KD", 17, false, false, false},
		{"bust", "KH QS 5C", 25, false, true, false},
		{"four aces", "AH AS AD AC", 14, true, false, false},
		{"ten and ace out of order", "10D AC", 21, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHand(cardsOf(tt.cards)...)
			assert.Equal(t, tt.value, h.BestValue())
			assert.Equal(t, tt.soft, h.Soft(), "soft")
			assert.Equal(t, tt.busted, h.Busted(), "busted")
			assert.Equal(t, tt.blackjack, h.Blackjack(), "blackjack")
		})
	}
}

func TestHandPossibleValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{2, 12, 22}, NewHand(cardsOf("AH AS")...).PossibleValues())
	assert.Equal(t, []int{0}, NewHand().PossibleValues())
	assert.Equal(t, []int{19}, NewHand(cardsOf("9H KS")...).PossibleValues())
}

func TestHandValueIgnoresOrder(t *testing.T) {
	t.Parallel()

	cards := cardsOf("AH 5S AC 3D")
	want := NewHand(cards...).BestValue()
	for i := range cards {
		rotated := slices.Concat(cards[i:], cards[:i])
		assert.Equal(t, want, NewHand(rotated...).BestValue(), "rotation %d", i)
	}
}

func TestHandCopiesCards(t *testing.T) {
	t.Parallel()

	cards := cardsOf("2H 3S")
	h := NewHand(cards...)
	cards[0] = cardsOf("KH")[0]
	assert.Equal(t, 5, h.BestValue())

	out := h.Cards()
	out[1] = cardsOf("KS")[0]
	assert.Equal(t, 5, h.BestValue())
	assert.Equal(t, "2♥ 3♠", h.String())
}
