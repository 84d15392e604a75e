package game

import (
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	id        string
	deckCount int         // Default: deck.DefaultDeckCount
	shoe      []deck.Card // If provided, replaces the shuffled shoe
	bus       EventBus    // If nil, events are dropped
	clock     quartz.Clock
}

// WithID sets the game identifier.
func WithID(id string) Option {
	return func(c *gameConfig) {
		c.id = id
	}
}

// WithDeckCount sets the number of decks in the shoe.
func WithDeckCount(n int) Option {
	return func(c *gameConfig) {
		c.deckCount = n
	}
}

// WithShoe sets a specific stacked shoe. Cards are dealt from the end of the
// slice. The RNG is still used when the shoe is later reshuffled.
func WithShoe(cards []deck.Card) Option {
	return func(c *gameConfig) {
		c.shoe = cards
	}
}

// WithEventBus publishes round events to the given bus.
func WithEventBus(bus EventBus) Option {
	return func(c *gameConfig) {
		c.bus = bus
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

func newGameConfig(opts []Option) *gameConfig {
	cfg := &gameConfig{deckCount: deck.DefaultDeckCount}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deckCount <= 0 {
		cfg.deckCount = deck.DefaultDeckCount
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	return cfg
}
