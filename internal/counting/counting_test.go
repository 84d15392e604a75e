package counting

import (
	"encoding/json"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(card string, n int) []deck.Card {
	c := deck.MustCard(card)
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = c
	}
	return cards
}

func TestRunningCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards string
		want  int
	}{
		{"", 0},
		{"2H 3C 4D 5S 6H", 5},
		{"10H JC QD KS AH", -5},
		{"7H 8C 9D", 0},
		{"2H KC 5D 8S AH", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RunningCount(deck.MustParseCards(tt.cards)), tt.cards)
	}
}

func TestTrueCount(t *testing.T) {
	t.Parallel()

	// 260 cards is five decks
	s := Summarize(repeat("2H", 10), 260)
	assert.Equal(t, 10, s.RunningCount)
	assert.Equal(t, 5.0, s.DecksRemaining)
	assert.Equal(t, 2.0, s.TrueCount)

	assert.Equal(t, 0.0, TrueCount(10, 0))
	assert.Equal(t, 0.0, Summarize(repeat("2H", 10), 0).TrueCount)

	// rounded to one decimal on both steps: 100/52 = 1.9 decks
	assert.Equal(t, 1.9, DecksRemaining(100))
	assert.Equal(t, 2.1, TrueCount(4, 1.9))
}

func TestDecksRemaining(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, DecksRemaining(156))
	assert.Equal(t, 6.0, DecksRemaining(312))
	assert.Equal(t, 0.0, DecksRemaining(0))
}

func TestAdviceThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tc      float64
		want    Advantage
		message string
	}{
		{5.0, AdvantagePlayer, "Favorable count (+5.0). The deck is rich in high cards."},
		{2.0, AdvantagePlayer, "Favorable count (+2.0). The deck is rich in high cards."},
		{1.9, AdvantageNeutral, "Neutral count (1.9). Standard play recommended."},
		{0, AdvantageNeutral, "Neutral count (0.0). Standard play recommended."},
		{-1.9, AdvantageNeutral, "Neutral count (-1.9). Standard play recommended."},
		{-2.0, AdvantageHouse, "Unfavorable count (-2.0). The deck is depleted of high cards."},
	}

	for _, tt := range tests {
		advice := AdviceFor(tt.tc)
		assert.Equal(t, tt.want, advice.Advantage, "true count %.1f", tt.tc)
		assert.Equal(t, tt.message, advice.Message)
	}
}

func TestSummarizeAdvice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AdvantagePlayer, Summarize(repeat("5H", 10), 104).Advice.Advantage)
	assert.Equal(t, AdvantageHouse, Summarize(repeat("KH", 10), 104).Advice.Advantage)
	assert.Equal(t, AdvantageNeutral, Summarize(nil, 312).Advice.Advantage)
}

func TestBreakdownAndRecent(t *testing.T) {
	t.Parallel()

	cards := deck.MustParseCards("AH KS AD 2C 10H 10S")
	s := Summarize(cards, 300)

	assert.Equal(t, map[deck.Rank]int{deck.Ace: 2, deck.King: 1, deck.Two: 1, deck.Ten: 2}, s.Breakdown)
	assert.Equal(t, 300, s.CardsRemaining)

	assert.Equal(t, deck.MustParseCards("2C 10H 10S"), s.Recent(3))
	assert.Equal(t, cards, s.Recent(12))
	assert.Empty(t, s.Recent(0))

	// the summary keeps its own copy of the revealed cards
	cards[5] = deck.MustCard("2H")
	assert.Equal(t, deck.MustCard("10S"), s.Recent(1)[0])
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Summarize(deck.MustParseCards("AH AS 5C"), 52))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"running_count": -1,
		"true_count": -1,
		"decks_remaining": 1,
		"cards_remaining": 52,
		"advice": {"advantage": "neutral", "message": "Neutral count (-1.0). Standard play recommended."},
		"breakdown": {"A": 2, "5": 1}
	}`, string(data))
}
