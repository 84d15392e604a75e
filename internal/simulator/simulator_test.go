package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	sim := New(Config{Rounds: 10})
	assert.Len(t, sim.config.Seats, 3)
	assert.Positive(t, sim.config.Workers)
	assert.LessOrEqual(t, sim.config.Workers, 8)
	assert.NotNil(t, sim.config.Logger)
}

func TestRunTalliesEverySeat(t *testing.T) {
	t.Parallel()

	sim := New(Config{
		Rounds:  200,
		Seats:   []game.SkillLevel{game.SkillLow, game.SkillHigh, game.SkillHigh},
		Decks:   2,
		Seed:    12345,
		Workers: 3,
		Logger:  log.New(io.Discard),
	})

	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, res.Rounds)
	require.Contains(t, res.BySkill, game.SkillLow)
	require.Contains(t, res.BySkill, game.SkillHigh)
	assert.NotContains(t, res.BySkill, game.SkillMedium)
	assert.Equal(t, 200, res.BySkill[game.SkillLow].Rounds)
	assert.Equal(t, 400, res.BySkill[game.SkillHigh].Rounds)
	assert.Equal(t, 600, res.Overall().Rounds)

	assert.LessOrEqual(t, res.DealerBusts, res.Rounds)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	config := Config{Rounds: 100, Seed: 7, Workers: 4, Logger: log.New(io.Discard)}

	first, err := New(config).Run(context.Background())
	require.NoError(t, err)
	second, err := New(config).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Rounds: 0}).Run(context.Background())
	assert.Error(t, err)

	seats := make([]game.SkillLevel, game.MaxSeats+1)
	_, err = New(Config{Rounds: 1, Seats: seats}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Rounds: 50, Workers: 2}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	res, err := New(Config{Rounds: 20, Seed: 1, Workers: 1}).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "Rounds played: 20")
	assert.Contains(t, out, "=== LOW SKILL ===")
	assert.Contains(t, out, "=== MEDIUM SKILL ===")
	assert.Contains(t, out, "=== HIGH SKILL ===")
}
