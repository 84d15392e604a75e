// Package bot plays the computer seats at a blackjack table.
package bot

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

// How often each skill level strays from its main rule
const (
	LowMistakeRate     = 0.2
	MediumFallbackRate = 0.3
	HighErrorRate      = 0.05
)

// Policy decides whether a computer player hits. Decisions are drawn from an
// injected uniform source so tests and simulations can replay them.
type Policy struct {
	src randutil.Source
}

// NewPolicy creates a policy drawing from src
func NewPolicy(src randutil.Source) *Policy {
	if src == nil {
		panic("random source is required for bot policy")
	}
	return &Policy{src: src}
}

// ShouldHit reports whether the player should take another card. A zero
// upCard (not yet dealt) is treated as a ten. Players without a computer
// skill level play as low skill.
func (p *Policy) ShouldHit(player *game.Player, upCard deck.Card) bool {
	if player.Busted() || player.Blackjack() {
		return false
	}

	dealer := 10
	if upCard.Valid() {
		dealer = upCard.Value()
	}

	skill, ok := player.Role.Skill()
	if !ok {
		skill = game.SkillLow
	}

	value := player.Value()
	switch skill {
	case game.SkillMedium:
		if p.src.Float64() < MediumFallbackRate {
			return value < 16
		}
		return BasicHit(value, player.Soft(), dealer)
	case game.SkillHigh:
		if p.src.Float64() < HighErrorRate {
			return value < 17
		}
		return BasicHit(value, player.Soft(), dealer)
	case game.SkillLow:
		return p.lowSkill(value)
	default:
		return p.lowSkill(value)
	}
}

func (p *Policy) lowSkill(value int) bool {
	if p.src.Float64() < LowMistakeRate {
		return p.src.Float64() < 0.5
	}
	return value < 15
}

// BasicHit is the simplified basic strategy computer players follow. Unlike
// the advisor it never doubles, so double spots become hits.
func BasicHit(value int, soft bool, dealer int) bool {
	if soft {
		switch {
		case value >= 19:
			return false
		case value == 18:
			return dealer >= 9
		default:
			return true
		}
	}

	switch {
	case value >= 17:
		return false
	case value >= 13:
		return dealer >= 7
	case value == 12:
		return dealer < 4 || dealer > 6
	default:
		return true
	}
}
