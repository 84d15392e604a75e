package game

import (
	"testing"

	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRound(t *testing.T) {
	t.Parallel()

	snap := newTestGame(t, "10H 5C 6S 7D 3C 9S").Snapshot()
	rng := randutil.New(1)

	out, err := Apply(snap, Command{Kind: CommandDealRound}, rng)
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, out.Snapshot.Status)
	assert.Equal(t, StatusWaiting, snap.Status, "input snapshot is not modified")

	out, err = Apply(out.Snapshot, Command{Kind: CommandHit, Position: 0}, rng)
	require.NoError(t, err)
	require.NotNil(t, out.Card)
	assert.Equal(t, cardsOf("3C")[0], *out.Card)
	assert.False(t, out.Busted)

	out, err = Apply(out.Snapshot, Command{Kind: CommandStand, Position: 0}, rng)
	require.NoError(t, err)
	assert.Equal(t, StatusDealerTurn, out.Snapshot.Status)

	out, err = Apply(out.Snapshot, Command{Kind: CommandPlayDealerTurn}, rng)
	require.NoError(t, err)
	require.NotNil(t, out.Dealer)
	assert.Equal(t, 21, out.Dealer.Value)
	assert.Equal(t, StatusFinished, out.Snapshot.Status)
	require.NotNil(t, out.Snapshot.Players[1].Result)
	assert.Equal(t, ResultLose, *out.Snapshot.Players[1].Result)

	out, err = Apply(out.Snapshot, Command{Kind: CommandNewRound}, rng)
	require.NoError(t, err)
	assert.False(t, out.Reshuffled)
	assert.Equal(t, StatusWaiting, out.Snapshot.Status)
}

func TestApplySeating(t *testing.T) {
	t.Parallel()

	snap := newTestGame(t, "10H 5C 6S 7D").Snapshot()
	rng := randutil.New(1)

	out, err := Apply(snap, Command{Kind: CommandAddComputer, Skill: SkillMedium}, rng)
	require.NoError(t, err)
	require.NotNil(t, out.Player)
	assert.Equal(t, "CPU 2 (Medium)", out.Player.Name)
	assert.Len(t, out.Snapshot.Players, 3)

	out, err = Apply(out.Snapshot, Command{Kind: CommandRemovePlayer, Position: 1}, rng)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Player.Position)
	assert.Len(t, out.Snapshot.Players, 2)
}

func TestApplyErrors(t *testing.T) {
	t.Parallel()

	snap := newTestGame(t, "10H 5C 6S 7D").Snapshot()
	rng := randutil.New(1)

	out, err := Apply(snap, Command{Kind: CommandHit, Position: 0}, rng)
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.Equal(t, Outcome{}, out)

	_, err = Apply(snap, Command{Kind: "double"}, rng)
	assert.Error(t, err)

	snap.Players = nil
	_, err = Apply(snap, Command{Kind: CommandDealRound}, rng)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
