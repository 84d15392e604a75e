package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/tui"
)

// CountCmd computes the Hi-Lo count over a list of cards
type CountCmd struct {
	Cards     []string `arg:"" optional:"" help:"Revealed cards, e.g. 2C KH 5D"`
	Decks     int      `default:"6" help:"Decks in the shoe (1-8)"`
	Remaining int      `help:"Cards left in the shoe (default: the shoe minus the cards given)"`
	JSON      bool     `name:"json" help:"Print the summary as JSON"`
}

func (c *CountCmd) Run(globals *Globals) error {
	if err := checkDecks(c.Decks); err != nil {
		return err
	}
	cards, err := deck.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}

	remaining := c.Remaining
	if remaining == 0 {
		remaining = c.Decks*len(deck.Ranks)*4 - len(cards)
	}
	if remaining < 0 {
		return fmt.Errorf("%d cards given but the shoe only holds %d", len(cards), c.Decks*len(deck.Ranks)*4)
	}

	summary := counting.Summarize(cards, remaining)
	if c.JSON {
		enc := json.NewEncoder(globals.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintln(globals.Out, tui.NewFormatter(tui.PlainStyles()).Dashboard(summary, nil))
	return nil
}
