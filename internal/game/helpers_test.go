package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/require"
)

// stackShoe builds a one-deck shoe that deals the given cards in order, with
// filler twos underneath. Enough filler keeps the shoe above the reshuffle
// threshold while the scripted cards come out.
func stackShoe(filler int, deal string) []deck.Card {
	cards := deck.MustParseCards(deal)
	shoe := make([]deck.Card, 0, filler+len(cards))
	for range filler {
		shoe = append(shoe, deck.MustCard("2C"))
	}
	for i := len(cards) - 1; i >= 0; i-- {
		shoe = append(shoe, cards[i])
	}
	return shoe
}

// newTestGame seats Alice at 0 and one computer per skill after her, with a
// shoe dealing the given cards.
func newTestGame(t *testing.T, deal string, computers ...SkillLevel) *Game {
	t.Helper()
	g := NewTable(randutil.New(42), "Alice",
		WithID("test"),
		WithDeckCount(1),
		WithShoe(stackShoe(20, deal)),
		WithClock(quartz.NewMock(t)),
	)
	for _, skill := range computers {
		_, err := g.AddComputerPlayer(skill)
		require.NoError(t, err)
	}
	return g
}

func cardsOf(s string) []deck.Card {
	return deck.MustParseCards(s)
}
