package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
)

type entry struct {
	snap      game.Snapshot
	updatedAt time.Time
}

// MemoryStore keeps snapshots in memory. Games untouched for longer than the
// idle limit can be dropped with Reap or a background reaper.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	locks   *locks
	clock   quartz.Clock
	logger  *log.Logger
}

// NewMemoryStore creates an empty store. A nil clock uses the real clock.
func NewMemoryStore(logger *log.Logger, clock quartz.Clock) *MemoryStore {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		locks:   newLocks(),
		clock:   clock,
		logger:  logger.WithPrefix("store"),
	}
}

func (s *MemoryStore) Create(ctx context.Context, snap game.Snapshot) error {
	if snap.ID == "" {
		return ErrNoID
	}
	unlock := s.locks.lock(snap.ID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[snap.ID]; ok {
		return fmt.Errorf("%s: %w", snap.ID, ErrExists)
	}
	s.entries[snap.ID] = &entry{snap: cloneSnapshot(snap), updatedAt: s.clock.Now()}
	s.logger.Debug("Created game", "game", snap.ID)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (game.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return game.Snapshot{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return cloneSnapshot(e.snap), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*game.Snapshot) error) (game.Snapshot, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}

	snap, err := s.Get(ctx, id)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := fn(&snap); err != nil {
		return game.Snapshot{}, err
	}
	if snap.ID != id {
		return game.Snapshot{}, fmt.Errorf("update changed game id from %q to %q", id, snap.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return game.Snapshot{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.entries[id] = &entry{snap: cloneSnapshot(snap), updatedAt: s.clock.Now()}
	return snap, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.entries, id)
	s.locks.forget(id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Reap removes games that have not been created or updated within maxIdle
// and returns their IDs. Each game is removed under its own lock, so an
// update in flight finishes first and keeps the game alive.
func (s *MemoryStore) Reap(maxIdle time.Duration) []string {
	now := s.clock.Now()

	s.mu.RLock()
	var idle []string
	for id, e := range s.entries {
		if now.Sub(e.updatedAt) > maxIdle {
			idle = append(idle, id)
		}
	}
	s.mu.RUnlock()
	slices.Sort(idle)

	var reaped []string
	for _, id := range idle {
		if s.reapIfIdle(id, maxIdle) {
			reaped = append(reaped, id)
		}
	}
	if len(reaped) > 0 {
		s.logger.Info("Reaped idle games", "count", len(reaped), "max_idle", maxIdle)
	}
	return reaped
}

func (s *MemoryStore) reapIfIdle(id string, maxIdle time.Duration) bool {
	unlock := s.locks.lock(id)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || s.clock.Now().Sub(e.updatedAt) <= maxIdle {
		return false
	}
	delete(s.entries, id)
	s.locks.forget(id)
	return true
}

// StartReaper calls Reap every interval until ctx is done. The returned
// waiter completes when the reaper stops.
func (s *MemoryStore) StartReaper(ctx context.Context, interval, maxIdle time.Duration) quartz.Waiter {
	return s.clock.TickerFunc(ctx, interval, func() error {
		s.Reap(maxIdle)
		return nil
	}, "reaper")
}

func cloneSnapshot(snap game.Snapshot) game.Snapshot {
	out := snap
	out.ShoeCards = slices.Clone(snap.ShoeCards)
	out.RevealedCards = slices.Clone(snap.RevealedCards)
	out.Players = make([]game.PlayerSnapshot, len(snap.Players))
	for i, p := range snap.Players {
		p.HandCards = slices.Clone(p.HandCards)
		if p.SkillLevel != nil {
			skill := *p.SkillLevel
			p.SkillLevel = &skill
		}
		if p.Result != nil {
			result := *p.Result
			p.Result = &result
		}
		out.Players[i] = p
	}
	return out
}
