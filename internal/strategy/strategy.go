// Package strategy recommends basic-strategy plays for a human player.
package strategy

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Action is a recommended play
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split // never recommended; there is no pair table
)

// String returns the lowercase action name
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// Label returns the display name of the action
func (a Action) Label() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double Down"
	case Split:
		return "Split"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (a Action) MarshalText() ([]byte, error) {
	if a < Hit || a > Split {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

// Advice is a recommendation with the reasoning behind it
type Advice struct {
	Action      Action `json:"action"`
	Label       string `json:"label"`
	Reason      string `json:"reason"`
	PlayerTotal int    `json:"player_total"`
	DealerShows string `json:"dealer_shows"`
	Soft        bool   `json:"soft"`
}

// Recommend returns the basic-strategy play for hand against the dealer's
// up card.
func Recommend(hand game.Hand, upCard deck.Card) Advice {
	value := hand.BestValue()
	dealer := upCard.Value()
	action := recommendedAction(hand, dealer)

	return Advice{
		Action:      action,
		Label:       action.Label(),
		Reason:      reason(action, value, dealer, upCard),
		PlayerTotal: value,
		DealerShows: upCard.String(),
		Soft:        hand.Soft(),
	}
}

func recommendedAction(hand game.Hand, dealer int) Action {
	if hand.Blackjack() || hand.Busted() {
		return Stand
	}
	if hand.Soft() {
		return softAction(hand.BestValue(), dealer)
	}
	return hardAction(hand.BestValue(), dealer)
}

func hardAction(value, dealer int) Action {
	switch {
	case value >= 17:
		return Stand
	case value >= 13:
		if dealer >= 7 {
			return Hit
		}
		return Stand
	case value == 12:
		if dealer >= 4 && dealer <= 6 {
			return Stand
		}
		return Hit
	case value == 11:
		return Double
	case value == 10:
		if dealer <= 9 {
			return Double
		}
		return Hit
	case value == 9:
		if dealer >= 3 && dealer <= 6 {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}

func softAction(value, dealer int) Action {
	switch {
	case value >= 19:
		return Stand
	case value == 18:
		switch {
		case dealer >= 9:
			return Hit
		case dealer >= 3 && dealer <= 6:
			return Double
		default:
			return Stand
		}
	case value == 17:
		if dealer >= 3 && dealer <= 6 {
			return Double
		}
		return Hit
	case value >= 15:
		if dealer >= 4 && dealer <= 6 {
			return Double
		}
		return Hit
	case value >= 13:
		if dealer >= 5 && dealer <= 6 {
			return Double
		}
		return Hit
	default:
		return Hit
	}
}

func reason(action Action, value, dealer int, upCard deck.Card) string {
	switch action {
	case Stand:
		switch {
		case value >= 17:
			return fmt.Sprintf("Stand on %d - strong hand, risk of busting is too high.", value)
		case dealer <= 6:
			return fmt.Sprintf("Stand and let the dealer bust. Dealer showing %s is weak.", upCard)
		default:
			return fmt.Sprintf("Stand with %d against dealer's %s.", value, upCard)
		}
	case Hit:
		switch {
		case value <= 11:
			return fmt.Sprintf("Hit - you cannot bust with %d.", value)
		case dealer >= 7:
			return fmt.Sprintf("Hit against dealer's strong %s. Need to improve your %d.", upCard, value)
		default:
			return "Hit to improve your hand."
		}
	case Double:
		switch value {
		case 11:
			return "Double on 11 - best opportunity to get 21."
		case 10:
			return fmt.Sprintf("Double on 10 against dealer's weak %s.", upCard)
		default:
			return fmt.Sprintf("Double - favorable situation against dealer's %s.", upCard)
		}
	case Split:
		return "Follow basic strategy"
	default:
		return "Follow basic strategy"
	}
}
