package strategy

import (
	"encoding/json"
	"testing"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(cards string) game.Hand {
	return game.NewHand(deck.MustParseCards(cards)...)
}

func TestRecommendHardHands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand   string
		dealer string
		want   Action
	}{
		{"10H 7S", "AC", Stand},
		{"10H 6S", "7C", Hit},
		{"10H 6S", "6C", Stand},
		{"10H 3S", "2C", Stand},
		{"10H 2S", "4C", Stand},
		{"10H 2S", "6C", Stand},
		{"10H 2S", "3C", Hit},
		{"10H 2S", "7C", Hit},
		{"6H 5S", "AC", Double},
		{"6H 4S", "9C", Double},
		{"6H 4S", "KC", Hit},
		{"6H 4S", "AC", Hit},
		{"5H 4S", "3C", Double},
		{"5H 4S", "2C", Hit},
		{"5H 4S", "7C", Hit},
		{"5H 3S", "6C", Hit},
		{"2H 3S 10C 6D", "KC", Stand},
	}

	for _, tt := range tests {
		got := Recommend(hand(tt.hand), deck.MustCard(tt.dealer))
		assert.Equal(t, tt.want, got.Action, "%s vs %s", tt.hand, tt.dealer)
		assert.False(t, got.Soft)
	}
}

func TestRecommendSoftHands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand   string
		dealer string
		want   Action
	}{
		{"AH 9S", "6C", Stand},
		{"AH 8S", "AC", Stand},
		{"AH 7S", "9C", Hit},
		{"AH 7S", "AC", Hit},
		{"AH 7S", "3C", Double},
		{"AH 7S", "2C", Stand},
		{"AH 7S", "8C", Stand},
		{"AH 6S", "3C", Double},
		{"AH 6S", "7C", Hit},
		{"AH 5S", "4C", Double},
		{"AH 4S", "3C", Hit},
		{"AH 3S", "5C", Double},
		{"AH 2S", "4C", Hit},
		{"AH AS", "6C", Hit},
	}

	for _, tt := range tests {
		got := Recommend(hand(tt.hand), deck.MustCard(tt.dealer))
		assert.Equal(t, tt.want, got.Action, "%s vs %s", tt.hand, tt.dealer)
		assert.True(t, got.Soft)
	}
}

func TestRecommendNeverSplits(t *testing.T) {
	t.Parallel()

	for _, rank := range deck.Ranks {
		pair := game.NewHand(deck.Card{Rank: rank, Suit: deck.Hearts}, deck.Card{Rank: rank, Suit: deck.Spades})
		for _, up := range deck.Ranks {
			got := Recommend(pair, deck.Card{Rank: up, Suit: deck.Clubs})
			assert.NotEqual(t, Split, got.Action)
		}
	}
}

func TestRecommendStandsOnFinishedHands(t *testing.T) {
	t.Parallel()

	bj := Recommend(hand("AH KS"), deck.MustCard("AC"))
	assert.Equal(t, Stand, bj.Action)

	bust := Recommend(hand("10H 6S 9C"), deck.MustCard("7C"))
	assert.Equal(t, Stand, bust.Action)
	assert.Equal(t, 25, bust.PlayerTotal)
}

func TestRecommendReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand   string
		dealer string
		label  string
		reason string
	}{
		{"10H 8S", "9C", "Stand", "Stand on 18 - strong hand, risk of busting is too high."},
		{"10H 4S", "5D", "Stand", "Stand and let the dealer bust. Dealer showing 5♦ is weak."},
		{"AH 7S", "7C", "Stand", "Stand on 18 - strong hand, risk of busting is too high."},
		{"5H 3S", "2C", "Hit", "Hit - you cannot bust with 8."},
		{"10H 5S", "QC", "Hit", "Hit against dealer's strong Q♣. Need to improve your 15."},
		{"10H 2S", "3H", "Hit", "Hit to improve your hand."},
		{"6H 5S", "KC", "Double Down", "Double on 11 - best opportunity to get 21."},
		{"6H 4S", "5S", "Double Down", "Double on 10 against dealer's weak 5♠."},
		{"AH 6S", "4H", "Double Down", "Double - favorable situation against dealer's 4♥."},
	}

	for _, tt := range tests {
		got := Recommend(hand(tt.hand), deck.MustCard(tt.dealer))
		assert.Equal(t, tt.label, got.Label, "%s vs %s", tt.hand, tt.dealer)
		assert.Equal(t, tt.reason, got.Reason, "%s vs %s", tt.hand, tt.dealer)
	}
}

func TestAdviceJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Recommend(hand("AH 6S"), deck.MustCard("4H")))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"action": "double",
		"label": "Double Down",
		"reason": "Double - favorable situation against dealer's 4♥.",
		"player_total": 17,
		"dealer_shows": "4♥",
		"soft": true
	}`, string(data))
}
