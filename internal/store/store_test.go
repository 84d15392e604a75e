package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T, id string) game.Snapshot {
	t.Helper()
	g := game.NewTable(randutil.New(7), "Alice", game.WithID(id), game.WithDeckCount(1))
	_, err := g.AddComputerPlayer(game.SkillHigh)
	require.NoError(t, err)
	return g.Snapshot()
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	logger := log.New(io.Discard)
	fileStore, err := NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(logger, quartz.NewMock(t)),
		"file":   fileStore,
	}
}

func TestStoreContract(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			_, err := s.Get(ctx, "a")
			require.ErrorIs(t, err, ErrNotFound)

			snap := newSnapshot(t, "a")
			require.NoError(t, s.Create(ctx, snap))
			require.ErrorIs(t, s.Create(ctx, snap), ErrExists)
			require.NoError(t, s.Create(ctx, newSnapshot(t, "b")))

			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, snap, got)

			ids, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids)

			require.NoError(t, s.Delete(ctx, "b"))
			require.ErrorIs(t, s.Delete(ctx, "b"), ErrNotFound)
			ids, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, ids)
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			require.NoError(t, s.Create(ctx, newSnapshot(t, "g")))

			updated, err := s.Update(ctx, "g", func(snap *game.Snapshot) error {
				out, err := game.Apply(*snap, game.Command{Kind: game.CommandDealRound}, randutil.New(1))
				if err != nil {
					return err
				}
				*snap = out.Snapshot
				return nil
			})
			require.NoError(t, err)
			assert.NotEqual(t, game.StatusWaiting, updated.Status)

			got, err := s.Get(ctx, "g")
			require.NoError(t, err)
			assert.Equal(t, updated, got)

			boom := errors.New("boom")
			_, err = s.Update(ctx, "g", func(snap *game.Snapshot) error {
				snap.Status = game.StatusFinished
				return boom
			})
			require.ErrorIs(t, err, boom)
			got, err = s.Get(ctx, "g")
			require.NoError(t, err)
			assert.Equal(t, updated, got, "failed update must not be saved")

			_, err = s.Update(ctx, "g", func(snap *game.Snapshot) error {
				snap.ID = "other"
				return nil
			})
			require.Error(t, err)

			_, err = s.Update(ctx, "missing", func(*game.Snapshot) error { return nil })
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreUpdateSerialisesPerGame(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			require.NoError(t, s.Create(ctx, newSnapshot(t, "g")))

			// each update reads the shoe size and removes one card; lost
			// updates would leave more cards behind
			start, err := s.Get(ctx, "g")
			require.NoError(t, err)

			const workers = 20
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Update(ctx, "g", func(snap *game.Snapshot) error {
						snap.ShoeCards = snap.ShoeCards[:len(snap.ShoeCards)-1]
						return nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			got, err := s.Get(ctx, "g")
			require.NoError(t, err)
			assert.Len(t, got.ShoeCards, len(start.ShoeCards)-workers)
		})
	}
}

func TestStoreUpdateHonoursContext(t *testing.T) {
	t.Parallel()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, s.Create(context.Background(), newSnapshot(t, "g")))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			called := false
			_, err := s.Update(ctx, "g", func(*game.Snapshot) error {
				called = true
				return nil
			})
			require.ErrorIs(t, err, context.Canceled)
			assert.False(t, called)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore(log.New(io.Discard), quartz.NewMock(t))
	snap := newSnapshot(t, "g")
	require.NoError(t, s.Create(ctx, snap))

	snap.Players[0].Name = "Mallory"
	snap.ShoeCards[0] = snap.ShoeCards[1]

	got, err := s.Get(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, "Dealer", got.Players[0].Name)

	got.Players[1].Name = "Eve"
	again, err := s.Get(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Players[1].Name)
}

func TestMemoryStoreReap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	s := NewMemoryStore(log.New(io.Discard), clock)

	require.NoError(t, s.Create(ctx, newSnapshot(t, "old")))
	clock.Advance(20 * time.Minute).MustWait(ctx)
	require.NoError(t, s.Create(ctx, newSnapshot(t, "new")))
	clock.Advance(15 * time.Minute).MustWait(ctx)

	assert.Equal(t, []string{"old"}, s.Reap(30*time.Minute))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)
	assert.Empty(t, s.Reap(30*time.Minute))
}

func TestMemoryStoreUpdateRefreshesIdleTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	s := NewMemoryStore(log.New(io.Discard), clock)

	require.NoError(t, s.Create(ctx, newSnapshot(t, "g")))
	clock.Advance(25 * time.Minute).MustWait(ctx)
	_, err := s.Update(ctx, "g", func(*game.Snapshot) error { return nil })
	require.NoError(t, err)
	clock.Advance(25 * time.Minute).MustWait(ctx)

	assert.Empty(t, s.Reap(30*time.Minute))
}

func TestMemoryStoreReapWaitsForUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	s := NewMemoryStore(log.New(io.Discard), clock)
	require.NoError(t, s.Create(ctx, newSnapshot(t, "g")))
	clock.Advance(time.Hour).MustWait(ctx)

	inside := make(chan struct{})
	release := make(chan struct{})
	updated := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, "g", func(*game.Snapshot) error {
			close(inside)
			<-release
			return nil
		})
		updated <- err
	}()
	<-inside

	reaped := make(chan []string, 1)
	go func() { reaped <- s.Reap(30 * time.Minute) }()

	assert.Never(t, func() bool { return len(reaped) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"reap must wait for the update holding the game")
	close(release)

	require.NoError(t, <-updated)
	assert.Empty(t, <-reaped)
	_, err := s.Get(ctx, "g")
	assert.NoError(t, err)
}

func TestMemoryStoreReaper(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := quartz.NewMock(t)
	s := NewMemoryStore(log.New(io.Discard), clock)
	require.NoError(t, s.Create(ctx, newSnapshot(t, "g")))

	waiter := s.StartReaper(ctx, time.Minute, 5*time.Minute)

	for range 6 {
		clock.Advance(time.Minute).MustWait(ctx)
	}
	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	cancel()
	assert.ErrorIs(t, waiter.Wait(), context.Canceled)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNoID)
	for _, id := range []string{"..", "../x", "a/b"} {
		_, err := s.Get(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestFileStoreValidatesOnLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir, log.New(io.Discard))
	require.NoError(t, err)

	tests := map[string]string{
		"not json":     `{"id":`,
		"missing keys": `{"id":"x"}`,
		"bad card":     `{"id":"x","status":"waiting","deck_count":1,"shoe_cards":[{"rank":"1","suit":"hearts"}],"revealed_cards":[],"current_player_position":-1,"players":[{"name":"Dealer","is_dealer":true,"is_computer":false,"hand_cards":[],"status":"waiting","position":-1}]}`,
		"bad status":   `{"id":"x","status":"paused","deck_count":1,"shoe_cards":[],"revealed_cards":[],"current_player_position":-1,"players":[{"name":"Dealer","is_dealer":true,"is_computer":false,"hand_cards":[],"status":"waiting","position":-1}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			id := "bad-" + filepath.Base(t.Name())
			require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(body), 0o644))

			_, err := s.Get(context.Background(), id)
			assert.ErrorIs(t, err, game.ErrInvalidSnapshot)
		})
	}
}

func TestValidatorAcceptsEngineSnapshots(t *testing.T) {
	t.Parallel()

	v, err := NewValidator()
	require.NoError(t, err)

	g := game.NewTable(randutil.New(3), "Alice", game.WithID("v"), game.WithDeckCount(2))
	_, err = g.AddComputerPlayer(game.SkillLow)
	require.NoError(t, err)
	require.NoError(t, g.DealRound())

	data, err := json.Marshal(g.Snapshot())
	require.NoError(t, err)
	assert.NoError(t, v.ValidateSnapshot(data))
}
