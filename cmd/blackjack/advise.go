package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/tui"
)

// AdviseCmd recommends a play without a running game
type AdviseCmd struct {
	Dealer string   `arg:"" help:"Dealer's up card, e.g. 6H"`
	Hand   []string `arg:"" help:"Your cards, e.g. TH 6S"`
}

func (c *AdviseCmd) Run(globals *Globals) error {
	up, err := deck.ParseCard(c.Dealer)
	if err != nil {
		return err
	}
	cards, err := deck.ParseCards(strings.Join(c.Hand, " "))
	if err != nil {
		return err
	}
	if len(cards) < 2 {
		return errors.New("a hand needs at least two cards")
	}

	hand := game.NewHand(cards...)
	advice := strategy.Recommend(hand, up)
	format := tui.NewFormatter(tui.PlainStyles())

	kind := "hard"
	if advice.Soft {
		kind = "soft"
	}
	fmt.Fprintf(globals.Out, "Hand: %s %d (%s)\n", format.Cards(cards), advice.PlayerTotal, kind)
	fmt.Fprintf(globals.Out, "Dealer shows: %s\n", advice.DealerShows)
	fmt.Fprintf(globals.Out, "Recommendation: %s\n", advice.Label)
	fmt.Fprintf(globals.Out, "%s\n", advice.Reason)
	return nil
}
