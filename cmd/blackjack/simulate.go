package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays computer-only tables
type SimulateCmd struct {
	Rounds  int      `default:"10000" help:"Rounds to play"`
	Seats   []string `default:"low,medium,high" help:"Computer skill for each seat"`
	Decks   int      `default:"6" help:"Decks in the shoe (1-8)"`
	Seed    int64    `help:"RNG seed (0 for random)"`
	Workers int      `help:"Parallel workers (0 = one per CPU, at most 8)"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	if err := checkDecks(c.Decks); err != nil {
		return err
	}
	skills, err := parseSkills(c.Seats)
	if err != nil {
		return err
	}
	logger, err := setupLogger(os.Stderr, globals.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting simulation", "rounds", c.Rounds, "seats", len(skills), "decks", c.Decks, "seed", seed)

	res, err := simulator.New(simulator.Config{
		Rounds:  c.Rounds,
		Seats:   skills,
		Decks:   c.Decks,
		Seed:    seed,
		Workers: c.Workers,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(globals.Out, res)
	fmt.Fprintf(globals.Out, "\nSeed: %d\n", seed)
	return nil
}
