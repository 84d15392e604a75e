package main

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/tui"
)

// HistoryCmd prints the rounds recorded in a history file
type HistoryCmd struct {
	File  string `arg:"" type:"existingfile" help:"History file written by play or serve"`
	Limit int    `help:"Only print the last N rounds (0 = all)"`
}

func (c *HistoryCmd) Run(globals *Globals) error {
	hist, err := history.ReadFile(c.File)
	if err != nil {
		return err
	}
	rounds := hist.Rounds
	if len(rounds) == 0 {
		return fmt.Errorf("no rounds found in %s", c.File)
	}
	if c.Limit > 0 && c.Limit < len(rounds) {
		rounds = rounds[len(rounds)-c.Limit:]
	}

	format := tui.NewFormatter(tui.PlainStyles())
	cards := func(short []string) string {
		parsed, err := deck.ParseCards(strings.Join(short, " "))
		if err != nil {
			return "[" + strings.Join(short, " ") + "]"
		}
		return format.Cards(parsed)
	}

	for _, r := range rounds {
		fmt.Fprintf(globals.Out, "Game %s • %s • running %+d, true %+.1f, %d cards left\n",
			r.Game, r.Time.Format("2006-01-02 15:04:05"), r.RunningCount, r.TrueCount, r.CardsRemaining)

		dealer := fmt.Sprintf("  Dealer: %s %d", cards(r.Dealer.Cards), r.Dealer.Value)
		if r.Dealer.Busted {
			dealer += " BUST"
		}
		fmt.Fprintln(globals.Out, dealer)

		for _, s := range r.Seats {
			fmt.Fprintf(globals.Out, "  Seat %d %s (%s): %s %d %s\n",
				s.Position, s.Name, s.Role, cards(s.Cards), s.Value, strings.ToUpper(s.Result))
		}
	}
	fmt.Fprintf(globals.Out, "\n%d of %d rounds shown\n", len(rounds), len(hist.Rounds))
	return nil
}
