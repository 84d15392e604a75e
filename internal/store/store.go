// Package store keeps game snapshots between requests. Access to a single
// game is serialised: Update holds that game's lock while the caller's
// function runs, so two commands never interleave on the same table.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/lox/blackjack/internal/game"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrExists   = errors.New("game already exists")
	ErrNoID     = errors.New("game id is required")
)

// Store persists game snapshots by ID
type Store interface {
	// Create saves a new game, failing with ErrExists if the ID is taken.
	Create(ctx context.Context, snap game.Snapshot) error
	// Get returns the stored snapshot or ErrNotFound.
	Get(ctx context.Context, id string) (game.Snapshot, error)
	// Update loads the snapshot, passes it to fn and saves the result if fn
	// succeeds. Nothing is saved when fn returns an error.
	Update(ctx context.Context, id string, fn func(*game.Snapshot) error) (game.Snapshot, error)
	// Delete removes a game, failing with ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
	// List returns the stored IDs in ascending order.
	List(ctx context.Context) ([]string, error)
}

// locks hands out one mutex per game ID
type locks struct {
	mu    sync.Mutex
	games map[string]*sync.Mutex
}

func newLocks() *locks {
	return &locks{games: make(map[string]*sync.Mutex)}
}

func (l *locks) lock(id string) func() {
	l.mu.Lock()
	m, ok := l.games[id]
	if !ok {
		m = &sync.Mutex{}
		l.games[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (l *locks) forget(id string) {
	l.mu.Lock()
	delete(l.games, id)
	l.mu.Unlock()
}
