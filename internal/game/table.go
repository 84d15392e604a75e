package game

import (
	"fmt"
	"slices"
)

// CanAddPlayer reports whether another player can sit down
func (g *Game) CanAddPlayer() bool {
	return g.Status == StatusWaiting && len(g.Seated()) < MaxSeats
}

// NextAvailablePosition returns the lowest free seat
func (g *Game) NextAvailablePosition() (int, bool) {
	for pos := range MaxSeats {
		if g.PlayerAt(pos) == nil {
			return pos, true
		}
	}
	return 0, false
}

// AddPlayer seats a human or computer player in the lowest free seat.
func (g *Game) AddPlayer(name string, role Role) (*Player, error) {
	if role.IsDealer() || !(role.IsHuman() || role.IsComputer()) {
		return nil, fmt.Errorf("seat %q as %s: %w", name, role, ErrInvalidRole)
	}
	if g.Status != StatusWaiting {
		return nil, fmt.Errorf("cannot add player: %w", ErrNotWaiting)
	}
	pos, ok := g.NextAvailablePosition()
	if !ok {
		return nil, ErrTableFull
	}

	p := &Player{
		Name:     name,
		Role:     role,
		Status:   PlayerWaiting,
		Position: pos,
	}
	g.players = append(g.players, p)
	g.sortPlayers()
	g.publish(newPlayerJoinedEvent(g.clock.Now(), p))
	return p, nil
}

// AddComputerPlayer seats a computer player named after its seat and skill,
// e.g. "CPU 2 (High)".
func (g *Game) AddComputerPlayer(skill SkillLevel) (*Player, error) {
	if g.Status != StatusWaiting {
		return nil, fmt.Errorf("cannot add player: %w", ErrNotWaiting)
	}
	pos, ok := g.NextAvailablePosition()
	if !ok {
		return nil, ErrTableFull
	}
	return g.AddPlayer(fmt.Sprintf("CPU %d (%s)", pos+1, skill.Title()), ComputerRole(skill))
}

// RemovePlayer removes a computer player between rounds.
func (g *Game) RemovePlayer(position int) (*Player, error) {
	p := g.PlayerAt(position)
	if p == nil {
		return nil, fmt.Errorf("position %d: %w", position, ErrUnknownPlayer)
	}
	if !p.Role.IsComputer() || g.Status != StatusWaiting {
		return nil, fmt.Errorf("remove %s: %w", p.Name, ErrCannotRemove)
	}
	g.players = slices.DeleteFunc(g.players, func(q *Player) bool { return q == p })
	g.publish(newPlayerLeftEvent(g.clock.Now(), p))
	return p, nil
}
