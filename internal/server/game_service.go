package server

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/store"
	"github.com/lox/blackjack/internal/strategy"
)

// ErrComputerSeat is returned when a client tries to act for a computer
var ErrComputerSeat = errors.New("seat is played by the computer")

// ErrUnknownTable is returned when create_game names a table that is not configured
var ErrUnknownTable = errors.New("unknown table")

// ServiceOption configures a GameService
type ServiceOption func(*GameService)

// WithRecorder forwards committed game events to sub, typically a
// history.Recorder.
func WithRecorder(sub game.EventSubscriber) ServiceOption {
	return func(gs *GameService) {
		gs.recorder = sub
	}
}

// WithServiceClock sets the clock used for event timestamps
func WithServiceClock(clock quartz.Clock) ServiceOption {
	return func(gs *GameService) {
		gs.clock = clock
	}
}

// WithSeed makes shuffles and computer decisions reproducible
func WithSeed(seed int64) ServiceOption {
	return func(gs *GameService) {
		gs.rng = randutil.New(seed)
	}
}

// GameService runs commands against stored games. Each command loads the
// snapshot, rebuilds the game, applies the command, lets computer players and
// the dealer take their turns, and saves the result while holding the game's
// store lock.
type GameService struct {
	store    store.Store
	config   *Config
	recorder game.EventSubscriber
	clock    quartz.Clock
	logger   *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGameService creates a new game service
func NewGameService(st store.Store, config *Config, logger *log.Logger, opts ...ServiceOption) *GameService {
	gs := &GameService{
		store:  st,
		config: config,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("game-service"),
	}
	for _, opt := range opts {
		opt(gs)
	}
	if gs.rng == nil {
		gs.rng = randutil.New(randutil.Seed(0))
	}
	return gs
}

// nextRand derives an independent RNG for one command
func (gs *GameService) nextRand() *rand.Rand {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return randutil.New(gs.rng.Int64())
}

// CreateGame seats the configured human and computers at a new table
func (gs *GameService) CreateGame(ctx context.Context, data CreateGameData) (GameStateData, error) {
	name := data.Table
	if name == "" {
		name = "main"
	}
	table := gs.config.Table(name)
	if table == nil {
		return GameStateData{}, fmt.Errorf("%s: %w", name, ErrUnknownTable)
	}
	skills, err := table.Skills()
	if err != nil {
		return GameStateData{}, err
	}
	human := table.Human
	if data.Human != "" {
		human = data.Human
	}

	rng := gs.nextRand()
	id, err := gameid.NewGenerator(nil).Generate()
	if err != nil {
		return GameStateData{}, err
	}
	g := game.NewTable(rng, human,
		game.WithID(id),
		game.WithDeckCount(table.Decks),
		game.WithClock(gs.clock),
	)
	for _, skill := range skills {
		if _, err := g.AddComputerPlayer(skill); err != nil {
			return GameStateData{}, err
		}
	}

	if err := gs.store.Create(ctx, g.Snapshot()); err != nil {
		return GameStateData{}, err
	}
	gs.logger.Info("Created game", "game", id, "table", name, "human", human, "computers", len(skills))
	return GameStateData{Game: NewGameView(g)}, nil
}

// Deal starts a round and plays any computer turns before the first human
func (gs *GameService) Deal(ctx context.Context, id string) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, rng *rand.Rand, state *GameStateData) error {
		if err := g.DealRound(); err != nil {
			return err
		}
		return gs.autoplay(g, rng, state)
	})
}

// Hit draws a card for the human at position
func (gs *GameService) Hit(ctx context.Context, id string, position int) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, rng *rand.Rand, state *GameStateData) error {
		if err := checkHumanSeat(g, position); err != nil {
			return err
		}
		res, err := g.Hit(position)
		if err != nil {
			return err
		}
		state.Card = &res.Card
		return gs.autoplay(g, rng, state)
	})
}

// Stand ends the turn of the human at position
func (gs *GameService) Stand(ctx context.Context, id string, position int) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, rng *rand.Rand, state *GameStateData) error {
		if err := checkHumanSeat(g, position); err != nil {
			return err
		}
		if err := g.Stand(position); err != nil {
			return err
		}
		return gs.autoplay(g, rng, state)
	})
}

// AddPlayer seats a computer player between rounds
func (gs *GameService) AddPlayer(ctx context.Context, id string, skill game.SkillLevel) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, _ *rand.Rand, state *GameStateData) error {
		p, err := g.AddComputerPlayer(skill)
		if err != nil {
			return err
		}
		view := seatView(p)
		state.Player = &view
		return nil
	})
}

// RemovePlayer removes a computer player between rounds
func (gs *GameService) RemovePlayer(ctx context.Context, id string, position int) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, _ *rand.Rand, state *GameStateData) error {
		p, err := g.RemovePlayer(position)
		if err != nil {
			return err
		}
		view := seatView(p)
		state.Player = &view
		return nil
	})
}

// NewRound returns a finished game to waiting
func (gs *GameService) NewRound(ctx context.Context, id string) (GameStateData, error) {
	return gs.update(ctx, id, func(g *game.Game, _ *rand.Rand, state *GameStateData) error {
		reshuffled, err := g.NewRound()
		state.Reshuffled = reshuffled
		return err
	})
}

// State returns the current view of a game
func (gs *GameService) State(ctx context.Context, id string) (GameStateData, error) {
	g, err := gs.load(ctx, id)
	if err != nil {
		return GameStateData{}, err
	}
	return GameStateData{Game: NewGameView(g)}, nil
}

// Advice returns the count and, once the seat has cards and the dealer shows
// an up card, the basic-strategy play for the seat at position.
func (gs *GameService) Advice(ctx context.Context, id string, position int) (AdviceData, error) {
	g, err := gs.load(ctx, id)
	if err != nil {
		return AdviceData{}, err
	}
	p := g.PlayerAt(position)
	if p == nil {
		return AdviceData{}, fmt.Errorf("position %d: %w", position, game.ErrUnknownPlayer)
	}

	data := AdviceData{
		GameID:   g.ID,
		Position: position,
		Count:    counting.Summarize(g.Revealed(), g.Shoe().Remaining()),
	}
	if up, ok := g.UpCard(); ok && p.Hand.Len() >= 2 {
		advice := strategy.Recommend(p.Hand, up)
		data.Strategy = &advice
	}
	return data, nil
}

func (gs *GameService) load(ctx context.Context, id string) (*game.Game, error) {
	snap, err := gs.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.FromSnapshot(snap, gs.nextRand(), game.WithClock(gs.clock))
}

// update runs fn against the stored game. Events are buffered and only
// passed to the recorder once the new snapshot has been saved.
func (gs *GameService) update(ctx context.Context, id string, fn func(*game.Game, *rand.Rand, *GameStateData) error) (GameStateData, error) {
	var (
		state  GameStateData
		events []game.GameEvent
	)

	_, err := gs.store.Update(ctx, id, func(snap *game.Snapshot) error {
		bus := game.NewEventBus()
		bus.Subscribe(game.SubscriberFunc(func(e game.GameEvent) {
			events = append(events, e)
		}))

		rng := gs.nextRand()
		g, err := game.FromSnapshot(*snap, rng, game.WithEventBus(bus), game.WithClock(gs.clock))
		if err != nil {
			return err
		}
		if err := fn(g, rng, &state); err != nil {
			return err
		}
		*snap = g.Snapshot()
		state.Game = NewGameView(g)
		return nil
	})
	if err != nil {
		return GameStateData{}, err
	}

	for _, e := range events {
		gs.logger.Debug("Game event", "game", id, "type", e.EventType())
		if gs.recorder != nil {
			gs.recorder.OnEvent(e)
		}
	}
	return state, nil
}

func (gs *GameService) autoplay(g *game.Game, rng *rand.Rand, state *GameStateData) error {
	report, err := bot.NewAutoplayer(gs.logger, bot.NewPolicy(rng)).Play(g)
	if err != nil {
		return err
	}
	for _, turn := range report.Turns {
		state.Autoplay = append(state.Autoplay, AutoTurn{
			Position: turn.Position,
			Name:     turn.Name,
			Drawn:    turn.Drawn,
			Value:    turn.Value,
			Status:   turn.Status,
		})
	}
	if report.Dealer != nil {
		state.Dealer = &DealerTurn{
			HoleCard: report.Dealer.HoleCard,
			Drawn:    report.Dealer.Drawn,
			Value:    report.Dealer.Value,
			Busted:   report.Dealer.Busted,
		}
	}
	return nil
}

func checkHumanSeat(g *game.Game, position int) error {
	p := g.PlayerAt(position)
	if p == nil {
		return fmt.Errorf("position %d: %w", position, game.ErrUnknownPlayer)
	}
	if p.Role.IsComputer() {
		return fmt.Errorf("%s: %w", p.Name, ErrComputerSeat)
	}
	return nil
}

// errorCode maps service errors onto the codes sent to clients
func errorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "game_not_found"
	case errors.Is(err, game.ErrInvalidSnapshot):
		return "corrupt_game"
	case errors.Is(err, ErrUnknownTable):
		return "unknown_table"
	case errors.Is(err, ErrComputerSeat),
		errors.Is(err, game.ErrNotWaiting),
		errors.Is(err, game.ErrNoPlayers),
		errors.Is(err, game.ErrNotPlaying),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNotDealerTurn),
		errors.Is(err, game.ErrNotFinished),
		errors.Is(err, game.ErrTableFull),
		errors.Is(err, game.ErrCannotRemove),
		errors.Is(err, game.ErrUnknownPlayer):
		return "invalid_action"
	default:
		return "internal_error"
	}
}
