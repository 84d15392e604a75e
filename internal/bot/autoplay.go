package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// MaxComputerHits caps the cards a computer player takes in one turn. No
// hand can take more without busting, so the cap only matters if the shoe
// misbehaves.
const MaxComputerHits = 21

// Turn records what one computer player did
type Turn struct {
	Position int
	Name     string
	Drawn    []deck.Card
	Value    int
	Status   game.PlayerStatus
}

// Report is everything an autoplay pass did
type Report struct {
	Turns  []Turn
	Dealer *game.DealerResult // set when the dealer played
}

// Autoplayer drives computer seats through their turns
type Autoplayer struct {
	policy *Policy
	logger *log.Logger
}

// NewAutoplayer creates an autoplayer that decides with policy
func NewAutoplayer(logger *log.Logger, policy *Policy) *Autoplayer {
	return &Autoplayer{
		policy: policy,
		logger: logger.WithPrefix("autoplay"),
	}
}

// Play takes turns for computer players while it is a computer's turn, then
// plays the dealer once every seat has finished. It stops as soon as a human
// has to act.
func (a *Autoplayer) Play(g *game.Game) (Report, error) {
	var report Report

	for g.Status == game.StatusPlaying {
		p := g.CurrentPlayer()
		if p == nil || !p.Role.IsComputer() {
			break
		}
		turn, err := a.playTurn(g, p)
		if err != nil {
			return report, err
		}
		report.Turns = append(report.Turns, turn)
	}

	if g.Status == game.StatusDealerTurn {
		res, err := g.PlayDealerTurn()
		if err != nil {
			return report, fmt.Errorf("dealer turn: %w", err)
		}
		a.logger.Debug("Dealer played", "game", g.ID, "value", res.Value, "busted", res.Busted, "drawn", len(res.Drawn))
		report.Dealer = &res
	}
	return report, nil
}

func (a *Autoplayer) playTurn(g *game.Game, p *game.Player) (Turn, error) {
	up, _ := g.UpCard()
	turn := Turn{Position: p.Position, Name: p.Name}

	for hits := 0; p.CanAct() && hits < MaxComputerHits && a.policy.ShouldHit(p, up); hits++ {
		res, err := g.Hit(p.Position)
		if err != nil {
			return turn, fmt.Errorf("%s hit: %w", p.Name, err)
		}
		turn.Drawn = append(turn.Drawn, res.Card)
		a.logger.Debug("Computer hit", "player", p.Name, "card", res.Card, "value", p.Value())
	}

	if p.CanAct() {
		if err := g.Stand(p.Position); err != nil {
			return turn, fmt.Errorf("%s stand: %w", p.Name, err)
		}
		a.logger.Debug("Computer stood", "player", p.Name, "value", p.Value())
	}

	turn.Value = p.Value()
	turn.Status = p.Status
	return turn, nil
}
