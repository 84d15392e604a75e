package game

import (
	rand "math/rand/v2"
	"slices"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/deck"
)

const (
	// MaxSeats is the number of non-dealer seats at a table
	MaxSeats = 6

	// DealerPosition is the position reserved for the dealer
	DealerPosition = -1

	// NoPosition marks CurrentPosition before anyone has been given the turn
	NoPosition = -1
)

// Game is the aggregate root for one blackjack table: its shoe, the cards
// disclosed this round, and every player including the dealer.
type Game struct {
	ID              string
	Status          GameStatus
	CurrentPosition int

	shoe     *deck.Shoe
	revealed []deck.Card
	players  []*Player // sorted by position; the dealer (-1) is first

	bus   EventBus
	clock quartz.Clock
}

// New creates a waiting game with a dealer, no seated players and a fully
// shuffled shoe. The RNG is required so that every shuffle is reproducible.
//
//	rng := randutil.New(42)
//	g := game.New(rng, game.WithDeckCount(2))
func New(rng *rand.Rand, opts ...Option) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}
	cfg := newGameConfig(opts)

	var shoe *deck.Shoe
	if cfg.shoe != nil {
		shoe = deck.RestoreShoe(rng, cfg.deckCount, cfg.shoe)
	} else {
		shoe = deck.NewShoe(rng, cfg.deckCount)
	}

	return &Game{
		ID:              cfg.id,
		Status:          StatusWaiting,
		CurrentPosition: NoPosition,
		shoe:            shoe,
		revealed:        []deck.Card{},
		players: []*Player{{
			Name:     "Dealer",
			Role:     DealerRole(),
			Position: DealerPosition,
		}},
		bus:   cfg.bus,
		clock: cfg.clock,
	}
}

// NewTable creates a game with a dealer and one human player in seat 0.
func NewTable(rng *rand.Rand, humanName string, opts ...Option) *Game {
	if humanName == "" {
		humanName = "Player"
	}
	g := New(rng, opts...)
	// a fresh table always has a free seat
	_, _ = g.AddPlayer(humanName, HumanRole())
	return g
}

// Shoe returns the game's shoe
func (g *Game) Shoe() *deck.Shoe {
	return g.shoe
}

// Revealed returns a copy of the cards disclosed to counting this round
func (g *Game) Revealed() []deck.Card {
	c := make([]deck.Card, len(g.revealed))
	copy(c, g.revealed)
	return c
}

// Players returns every player including the dealer, ordered by position
func (g *Game) Players() []*Player {
	return slices.Clone(g.players)
}

// Dealer returns the dealer
func (g *Game) Dealer() *Player {
	for _, p := range g.players {
		if p.Role.IsDealer() {
			return p
		}
	}
	return nil
}

// Seated returns the non-dealer players in ascending position order
func (g *Game) Seated() []*Player {
	seated := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if !p.Role.IsDealer() {
			seated = append(seated, p)
		}
	}
	return seated
}

// PlayerAt returns the non-dealer player at position
func (g *Game) PlayerAt(position int) *Player {
	for _, p := range g.players {
		if !p.Role.IsDealer() && p.Position == position {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil
func (g *Game) CurrentPlayer() *Player {
	if g.Status != StatusPlaying {
		return nil
	}
	return g.PlayerAt(g.CurrentPosition)
}

// Human returns the first human player, or nil
func (g *Game) Human() *Player {
	for _, p := range g.players {
		if p.Role.IsHuman() {
			return p
		}
	}
	return nil
}

// UpCard returns the dealer's face-up card once dealt
func (g *Game) UpCard() (deck.Card, bool) {
	d := g.Dealer()
	if d == nil {
		return deck.Card{}, false
	}
	return d.UpCard()
}

func (g *Game) reveal(c deck.Card) {
	g.revealed = append(g.revealed, c)
}

func (g *Game) publish(event GameEvent) {
	if g.bus != nil {
		g.bus.Publish(event)
	}
}

func (g *Game) sortPlayers() {
	slices.SortFunc(g.players, func(a, b *Player) int {
		return a.Position - b.Position
	})
}
