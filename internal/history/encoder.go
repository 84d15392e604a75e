package history

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Encode writes one round as a [[rounds]] table. Appending the output of
// successive calls to the same file yields a valid Log.
func Encode(w io.Writer, round *Round) error {
	if round == nil {
		return fmt.Errorf("history: round is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(Log{Rounds: []Round{*round}})
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(round *Round) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, round); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads every round from r
func Decode(r io.Reader) (*Log, error) {
	var out Log
	if _, err := toml.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &out, nil
}

// FromEvent builds a record from a round end event
func FromEvent(e game.RoundEndEvent) *Round {
	count := counting.Summarize(e.Revealed, e.Remaining)

	seats := make([]Seat, len(e.Results))
	for i, r := range e.Results {
		seats[i] = Seat{
			Position: r.Seat.Position,
			Name:     r.Seat.Name,
			Role:     r.Seat.Role.String(),
			Cards:    FormatCards(r.Cards),
			Value:    r.Value,
			Result:   r.Result.String(),
		}
	}

	return &Round{
		Game:           e.GameID,
		Time:           e.Timestamp().UTC(),
		RunningCount:   count.RunningCount,
		TrueCount:      count.TrueCount,
		CardsRemaining: count.CardsRemaining,
		Dealer: Dealer{
			Cards:  FormatCards(e.DealerHand),
			Value:  e.DealerValue,
			Busted: e.DealerBusted,
		},
		Seats: seats,
	}
}

// FormatCards renders cards in short notation ("Ah", "Td") so records can be
// parsed back with deck.ParseCards.
func FormatCards(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		rank := c.Rank.String()
		if c.Rank == deck.Ten {
			rank = "T"
		}
		out[i] = rank + c.Suit.String()[:1]
	}
	return out
}
