package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs a local table in the terminal
type PlayCmd struct {
	Name       string   `default:"Player" help:"Your name at the table"`
	Decks      int      `default:"6" help:"Decks in the shoe (1-8)"`
	Computers  []string `default:"medium,high" help:"Computer players to seat, by skill (low, medium, high)"`
	Seed       int64    `help:"RNG seed (0 for random)"`
	NoColor    bool     `help:"Disable colours"`
	LogFile    string   `default:"blackjack.log" help:"File to write logs to while the table is open"`
	HistoryDir string   `type:"path" help:"Record finished rounds as TOML into this directory"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	if err := checkDecks(c.Decks); err != nil {
		return err
	}
	skills, err := parseSkills(c.Computers)
	if err != nil {
		return err
	}
	if len(skills) > game.MaxSeats-1 {
		return fmt.Errorf("at most %d computer players", game.MaxSeats-1)
	}

	// the terminal belongs to the table, so logs go to a file
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := setupLogger(logFile, globals.LogLevel)
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	rng := randutil.New(seed)
	id := gameid.Generate()
	opts := []game.Option{game.WithID(id), game.WithDeckCount(c.Decks)}

	if c.HistoryDir != "" {
		recorder, err := history.NewRecorder(c.HistoryDir, logger)
		if err != nil {
			return err
		}
		bus := game.NewEventBus()
		bus.Subscribe(recorder)
		opts = append(opts, game.WithEventBus(bus))
	}

	g := game.NewTable(rng, c.Name, opts...)
	for _, skill := range skills {
		if _, err := g.AddComputerPlayer(skill); err != nil {
			return err
		}
	}
	logger.Info("Starting game", "game", id, "seed", seed, "decks", c.Decks, "computers", len(skills))

	styles := tui.DefaultStyles()
	if c.NoColor {
		styles = tui.PlainStyles()
	}
	session := tui.NewSession(g, randutil.New(rng.Int64()), tui.NewFormatter(styles), logger)
	model := tui.NewModel(session, styles, logger)

	ctx, cancel := signalContext(logger)
	defer cancel()
	return tui.Run(ctx, model)
}

func checkDecks(n int) error {
	if n < 1 || n > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", n)
	}
	return nil
}

func parseSkills(names []string) ([]game.SkillLevel, error) {
	skills := make([]game.SkillLevel, 0, len(names))
	for _, name := range names {
		skill, err := game.ParseSkillLevel(name)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}
