package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/deck"
)

// CommandKind names an operation that can be applied to a snapshot
type CommandKind string

const (
	CommandDealRound      CommandKind = "deal"
	CommandHit            CommandKind = "hit"
	CommandStand          CommandKind = "stand"
	CommandPlayDealerTurn CommandKind = "dealer_turn"
	CommandNewRound       CommandKind = "new_round"
	CommandAddComputer    CommandKind = "add_player"
	CommandRemovePlayer   CommandKind = "remove_player"
)

// Command is a single engine operation. Position is used by hit, stand and
// remove_player; Skill by add_player.
type Command struct {
	Kind     CommandKind
	Position int
	Skill    SkillLevel
}

// Outcome is the result of applying a Command
type Outcome struct {
	Snapshot   Snapshot
	Card       *deck.Card      // the card drawn by a hit
	Busted     bool            // the hit busted the player
	Reshuffled bool            // new_round reshuffled the shoe
	Player     *PlayerSnapshot // the player added or removed
	Dealer     *DealerResult
}

// Apply rebuilds the game from snap, runs cmd and returns the resulting
// snapshot. On error the input snapshot is untouched and no outcome is
// returned.
func Apply(snap Snapshot, cmd Command, rng *rand.Rand, opts ...Option) (Outcome, error) {
	g, err := FromSnapshot(snap, rng, opts...)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	switch cmd.Kind {
	case CommandDealRound:
		err = g.DealRound()
	case CommandHit:
		var res HitResult
		if res, err = g.Hit(cmd.Position); err == nil {
			out.Card = &res.Card
			out.Busted = res.Busted
		}
	case CommandStand:
		err = g.Stand(cmd.Position)
	case CommandPlayDealerTurn:
		var res DealerResult
		if res, err = g.PlayDealerTurn(); err == nil {
			out.Dealer = &res
		}
	case CommandNewRound:
		out.Reshuffled, err = g.NewRound()
	case CommandAddComputer:
		var p *Player
		if p, err = g.AddComputerPlayer(cmd.Skill); err == nil {
			ps := snapshotPlayer(p)
			out.Player = &ps
		}
	case CommandRemovePlayer:
		var p *Player
		if p, err = g.RemovePlayer(cmd.Position); err == nil {
			ps := snapshotPlayer(p)
			out.Player = &ps
		}
	default:
		return Outcome{}, fmt.Errorf("unknown command %q", cmd.Kind)
	}
	if err != nil {
		return Outcome{}, err
	}

	out.Snapshot = g.Snapshot()
	return out, nil
}
