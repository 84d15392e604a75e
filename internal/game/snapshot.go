package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/blackjack/internal/deck"
)

// Snapshot is the persisted form of a Game. It is what the storage and
// transport layers hand to the engine and get back after each operation.
type Snapshot struct {
	ID                    string           `json:"id"`
	Status                GameStatus       `json:"status"`
	DeckCount             int              `json:"deck_count"`
	ShoeCards             []deck.Card      `json:"shoe_cards"`
	RevealedCards         []deck.Card      `json:"revealed_cards"`
	CurrentPlayerPosition int              `json:"current_player_position"`
	Players               []PlayerSnapshot `json:"players"`
}

// PlayerSnapshot is the persisted form of a Player. The role is stored as
// the is_dealer/is_computer flags plus skill_level.
type PlayerSnapshot struct {
	Name       string        `json:"name"`
	IsDealer   bool          `json:"is_dealer"`
	IsComputer bool          `json:"is_computer"`
	SkillLevel *SkillLevel   `json:"skill_level"`
	HandCards  []deck.Card   `json:"hand_cards"`
	Status     PlayerStatus  `json:"status"`
	Position   int           `json:"position"`
	Result     *PlayerResult `json:"result"`
}

// Snapshot captures the full state of the game
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerSnapshot, len(g.players))
	for i, p := range g.players {
		players[i] = snapshotPlayer(p)
	}
	return Snapshot{
		ID:                    g.ID,
		Status:                g.Status,
		DeckCount:             g.shoe.DeckCount(),
		ShoeCards:             g.shoe.Cards(),
		RevealedCards:         g.Revealed(),
		CurrentPlayerPosition: g.CurrentPosition,
		Players:               players,
	}
}

func snapshotPlayer(p *Player) PlayerSnapshot {
	ps := PlayerSnapshot{
		Name:       p.Name,
		IsDealer:   p.Role.IsDealer(),
		IsComputer: p.Role.IsComputer(),
		HandCards:  p.Hand.Cards(),
		Status:     p.Status,
		Position:   p.Position,
	}
	if skill, ok := p.Role.Skill(); ok {
		ps.SkillLevel = &skill
	}
	if p.Result != ResultNone {
		r := p.Result
		ps.Result = &r
	}
	return ps
}

// FromSnapshot rebuilds a game from a snapshot, checking the table
// invariants: exactly one dealer at DealerPosition, unique seats in
// 0..MaxSeats-1, a skill level for every computer player, known enum
// values, and a current player who can act while the round is being
// played. The RNG is used for later reshuffles. Options override the ID, deck count and shoe only if
// given explicitly; events and clock options apply as usual.
func FromSnapshot(snap Snapshot, rng *rand.Rand, opts ...Option) (*Game, error) {
	if rng == nil {
		panic("rng is required for game creation")
	}
	cfg := newGameConfig(append([]Option{WithID(snap.ID), WithDeckCount(snap.DeckCount), WithShoe(snap.ShoeCards)}, opts...))

	if snap.Status < StatusWaiting || snap.Status > StatusFinished {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidSnapshot, snap.Status)
	}

	players := make([]*Player, 0, len(snap.Players))
	seen := map[int]bool{}
	dealers := 0
	for _, ps := range snap.Players {
		p, err := restorePlayer(ps)
		if err != nil {
			return nil, err
		}
		if p.Role.IsDealer() {
			dealers++
		}
		if seen[p.Position] {
			return nil, fmt.Errorf("%w: duplicate position %d", ErrInvalidSnapshot, p.Position)
		}
		seen[p.Position] = true
		players = append(players, p)
	}
	if dealers != 1 {
		return nil, fmt.Errorf("%w: want exactly one dealer, got %d", ErrInvalidSnapshot, dealers)
	}

	for _, c := range slices.Concat(snap.RevealedCards, cfg.shoe) {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid card %v", ErrInvalidSnapshot, c)
		}
	}

	g := &Game{
		ID:              cfg.id,
		Status:          snap.Status,
		CurrentPosition: snap.CurrentPlayerPosition,
		shoe:            deck.RestoreShoe(rng, cfg.deckCount, cfg.shoe),
		revealed:        append([]deck.Card{}, snap.RevealedCards...),
		players:         players,
		bus:             cfg.bus,
		clock:           cfg.clock,
	}
	g.sortPlayers()

	if g.Status == StatusPlaying {
		if p := g.PlayerAt(g.CurrentPosition); p == nil || !p.CanAct() {
			return nil, fmt.Errorf("%w: position %d cannot act while playing", ErrInvalidSnapshot, g.CurrentPosition)
		}
	}
	return g, nil
}

func restorePlayer(ps PlayerSnapshot) (*Player, error) {
	var role Role
	switch {
	case ps.IsDealer:
		// older records flag the dealer as a computer too; the dealer wins
		role = DealerRole()
		if ps.Position != DealerPosition {
			return nil, fmt.Errorf("%w: dealer at position %d", ErrInvalidSnapshot, ps.Position)
		}
	case ps.IsComputer:
		if ps.SkillLevel == nil {
			return nil, fmt.Errorf("%w: computer player %q has no skill level", ErrInvalidSnapshot, ps.Name)
		}
		if *ps.SkillLevel < SkillLow || *ps.SkillLevel > SkillHigh {
			return nil, fmt.Errorf("%w: %q has skill level %d", ErrInvalidSnapshot, ps.Name, *ps.SkillLevel)
		}
		role = ComputerRole(*ps.SkillLevel)
	default:
		if ps.SkillLevel != nil {
			return nil, fmt.Errorf("%w: human player %q has a skill level", ErrInvalidSnapshot, ps.Name)
		}
		role = HumanRole()
	}

	if !role.IsDealer() && (ps.Position < 0 || ps.Position >= MaxSeats) {
		return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidSnapshot, ps.Name, ps.Position)
	}
	if ps.Name == "" {
		return nil, fmt.Errorf("%w: player at position %d has no name", ErrInvalidSnapshot, ps.Position)
	}
	if ps.Status < PlayerWaiting || ps.Status > PlayerBlackjack {
		return nil, fmt.Errorf("%w: %q has status %d", ErrInvalidSnapshot, ps.Name, ps.Status)
	}
	if ps.Result != nil && (*ps.Result < ResultNone || *ps.Result > ResultBlackjackWin) {
		return nil, fmt.Errorf("%w: %q has result %d", ErrInvalidSnapshot, ps.Name, *ps.Result)
	}
	for _, c := range ps.HandCards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: invalid card %v in %q's hand", ErrInvalidSnapshot, c, ps.Name)
		}
	}

	p := &Player{
		Name:     ps.Name,
		Role:     role,
		Hand:     NewHand(ps.HandCards...),
		Status:   ps.Status,
		Position: ps.Position,
	}
	if ps.Result != nil {
		p.Result = *ps.Result
	}
	return p, nil
}
