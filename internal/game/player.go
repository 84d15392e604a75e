package game

import (
	"github.com/lox/blackjack/internal/deck"
)

type roleKind int

const (
	roleUnset roleKind = iota
	roleDealer
	roleHuman
	roleComputer
)

// Role is who controls a seat: the dealer, a human, or a computer player at
// a given skill level. Only the constructors below produce valid roles, so a
// seat can never be both dealer and computer, or a computer without a skill.
type Role struct {
	kind  roleKind
	skill SkillLevel
}

// DealerRole returns the house role
func DealerRole() Role { return Role{kind: roleDealer} }

// HumanRole returns the role for a person at the table
func HumanRole() Role { return Role{kind: roleHuman} }

// ComputerRole returns the role for a computer player
func ComputerRole(skill SkillLevel) Role { return Role{kind: roleComputer, skill: skill} }

func (r Role) IsDealer() bool   { return r.kind == roleDealer }
func (r Role) IsHuman() bool    { return r.kind == roleHuman }
func (r Role) IsComputer() bool { return r.kind == roleComputer }

// Skill returns the computer player's skill level; ok is false for other roles
func (r Role) Skill() (level SkillLevel, ok bool) {
	if r.kind != roleComputer {
		return 0, false
	}
	return r.skill, true
}

// String returns "dealer", "human" or "computer(<skill>)"
func (r Role) String() string {
	switch r.kind {
	case roleDealer:
		return "dealer"
	case roleHuman:
		return "human"
	case roleComputer:
		return "computer(" + r.skill.String() + ")"
	default:
		return "unset"
	}
}

// Player is a seat at the table, including the dealer
type Player struct {
	Name     string
	Role     Role
	Hand     Hand
	Status   PlayerStatus
	Position int
	Result   PlayerResult
}

// Value returns the best value of the player's hand
func (p *Player) Value() int { return p.Hand.BestValue() }

// Busted reports whether the player's hand is over 21
func (p *Player) Busted() bool { return p.Hand.Busted() }

// Blackjack reports whether the player holds a natural
func (p *Player) Blackjack() bool { return p.Hand.Blackjack() }

// Soft reports whether the player's hand is soft
func (p *Player) Soft() bool { return p.Hand.Soft() }

// CanAct reports whether the player may still hit or stand
func (p *Player) CanAct() bool {
	return p.Status == PlayerPlaying && !p.Busted() && !p.Blackjack()
}

// FinishedTurn reports whether the player has stood, busted or has blackjack
func (p *Player) FinishedTurn() bool {
	switch p.Status {
	case PlayerStood, PlayerBusted, PlayerBlackjack:
		return true
	case PlayerWaiting, PlayerPlaying:
		return false
	default:
		return false
	}
}

// UpCard returns the dealer's face-up card
func (p *Player) UpCard() (deck.Card, bool) {
	if !p.Role.IsDealer() {
		return deck.Card{}, false
	}
	return p.Hand.Card(0)
}

// HoleCard returns the dealer's face-down card
func (p *Player) HoleCard() (deck.Card, bool) {
	if !p.Role.IsDealer() {
		return deck.Card{}, false
	}
	return p.Hand.Card(1)
}

func (p *Player) resetForRound() {
	p.Hand.Clear()
	p.Status = PlayerWaiting
	p.Result = ResultNone
}
