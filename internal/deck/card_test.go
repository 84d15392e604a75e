package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card  string
		value int
		hilo  int
		ten   bool
	}{
		{"2h", 2, 1, false},
		{"6s", 6, 1, false},
		{"7d", 7, 0, false},
		{"9c", 9, 0, false},
		{"10h", 10, -1, true},
		{"Jd", 10, -1, true},
		{"Qc", 10, -1, true},
		{"Ks", 10, -1, true},
		{"Ah", 11, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			c := MustCard(tt.card)
			assert.Equal(t, tt.value, c.Value())
			assert.Equal(t, tt.hilo, c.HiLo())
			assert.Equal(t, tt.ten, c.IsTen())
		})
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "A♥", MustCard("AH").String())
	assert.Equal(t, "10♠", MustCard("Ts").String())
	assert.True(t, MustCard("Kd").IsRed())
	assert.False(t, MustCard("Kc").IsRed())
}

func TestNewCardRejectsUnknownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rank string
		suit string
	}{
		{"unknown rank", "1", "hearts"},
		{"face letter", "X", "spades"},
		{"unknown suit", "A", "stars"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCard(tt.rank, tt.suit)
			assert.Error(t, err)
		})
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(MustCard("10d"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"rank":"10","suit":"diamonds"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"rank":"Q","suit":"clubs"}`), &c))
	assert.Equal(t, Card{Rank: Queen, Suit: Clubs}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"rank":"11","suit":"clubs"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"rank":"Q","suit":"cups"}`), &c))

	_, err = json.Marshal(Card{})
	assert.Error(t, err, "zero card has no rank")
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("AH, 10s Kd")
	require.NoError(t, err)
	assert.Equal(t, []Card{
		{Rank: Ace, Suit: Hearts},
		{Rank: Ten, Suit: Spades},
		{Rank: King, Suit: Diamonds},
	}, cards)

	_, err = ParseCards("AH Zz")
	assert.Error(t, err)

	assert.Panics(t, func() { MustCard("nope") })
}
