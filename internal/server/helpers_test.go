package server

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	mu     sync.Mutex
	events []game.GameEvent
}

func (l *eventLog) OnEvent(e game.GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) roundEnds() []game.RoundEndEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ends []game.RoundEndEvent
	for _, e := range l.events {
		if end, ok := e.(game.RoundEndEvent); ok {
			ends = append(ends, end)
		}
	}
	return ends
}

type testService struct {
	*GameService
	store  *store.MemoryStore
	events *eventLog
}

func newTestService(t *testing.T) *testService {
	t.Helper()
	logger := log.New(io.Discard)
	clock := quartz.NewMock(t)
	st := store.NewMemoryStore(logger, clock)
	events := &eventLog{}
	svc := NewGameService(st, DefaultConfig(), logger,
		WithSeed(1),
		WithServiceClock(clock),
		WithRecorder(events),
	)
	return &testService{GameService: svc, store: st, events: events}
}

// stackedGame stores a game with Alice in seat 0, the given computers after
// her, and a one-deck shoe that deals the cards in order over twenty twos.
func (ts *testService) stackedGame(t *testing.T, id, deal string, computers ...game.SkillLevel) {
	t.Helper()
	cards := deck.MustParseCards(deal)
	shoe := make([]deck.Card, 0, 20+len(cards))
	for range 20 {
		shoe = append(shoe, deck.MustCard("2C"))
	}
	for i := len(cards) - 1; i >= 0; i-- {
		shoe = append(shoe, cards[i])
	}

	g := game.NewTable(randutil.New(1), "Alice",
		game.WithID(id),
		game.WithDeckCount(1),
		game.WithShoe(shoe),
	)
	for _, skill := range computers {
		_, err := g.AddComputerPlayer(skill)
		require.NoError(t, err)
	}
	require.NoError(t, ts.store.Create(context.Background(), g.Snapshot()))
}
