package game

import "fmt"

// GameStatus is the phase of the current round
type GameStatus int

const (
	StatusWaiting GameStatus = iota
	StatusDealing
	StatusPlaying
	StatusDealerTurn
	StatusFinished
)

// String returns the serialized name of the status
func (s GameStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusDealing:
		return "dealing"
	case StatusPlaying:
		return "playing"
	case StatusDealerTurn:
		return "dealer_turn"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s GameStatus) MarshalText() ([]byte, error) {
	if s < StatusWaiting || s > StatusFinished {
		return nil, fmt.Errorf("invalid game status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *GameStatus) UnmarshalText(b []byte) error {
	for v := StatusWaiting; v <= StatusFinished; v++ {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid game status %q", string(b))
}

// PlayerStatus tracks a player's progress through a round
type PlayerStatus int

const (
	PlayerWaiting PlayerStatus = iota
	PlayerPlaying
	PlayerStood
	PlayerBusted
	PlayerBlackjack
)

// String returns the serialized name of the status
func (s PlayerStatus) String() string {
	switch s {
	case PlayerWaiting:
		return "waiting"
	case PlayerPlaying:
		return "playing"
	case PlayerStood:
		return "stood"
	case PlayerBusted:
		return "busted"
	case PlayerBlackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s PlayerStatus) MarshalText() ([]byte, error) {
	if s < PlayerWaiting || s > PlayerBlackjack {
		return nil, fmt.Errorf("invalid player status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *PlayerStatus) UnmarshalText(b []byte) error {
	for v := PlayerWaiting; v <= PlayerBlackjack; v++ {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid player status %q", string(b))
}

// PlayerResult is the settled outcome of a player's hand. ResultNone means
// the round has not been settled.
type PlayerResult int

const (
	ResultNone PlayerResult = iota
	ResultWin
	ResultLose
	ResultPush
	ResultBlackjackWin
)

// String returns the serialized name of the result
func (r PlayerResult) String() string {
	switch r {
	case ResultNone:
		return ""
	case ResultWin:
		return "win"
	case ResultLose:
		return "lose"
	case ResultPush:
		return "push"
	case ResultBlackjackWin:
		return "blackjack_win"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (r PlayerResult) MarshalText() ([]byte, error) {
	if r <= ResultNone || r > ResultBlackjackWin {
		return nil, fmt.Errorf("invalid player result %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *PlayerResult) UnmarshalText(b []byte) error {
	for v := ResultWin; v <= ResultBlackjackWin; v++ {
		if v.String() == string(b) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("invalid player result %q", string(b))
}

// SkillLevel controls how closely a computer player follows basic strategy
type SkillLevel int

const (
	SkillLow SkillLevel = iota
	SkillMedium
	SkillHigh
)

// String returns the serialized name of the skill level
func (s SkillLevel) String() string {
	switch s {
	case SkillLow:
		return "low"
	case SkillMedium:
		return "medium"
	case SkillHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Title returns the capitalised name used in player names
func (s SkillLevel) Title() string {
	switch s {
	case SkillLow:
		return "Low"
	case SkillMedium:
		return "Medium"
	case SkillHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ParseSkillLevel parses "low", "medium" or "high"
func ParseSkillLevel(s string) (SkillLevel, error) {
	var level SkillLevel
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// MarshalText implements encoding.TextMarshaler
func (s SkillLevel) MarshalText() ([]byte, error) {
	if s < SkillLow || s > SkillHigh {
		return nil, fmt.Errorf("invalid skill level %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SkillLevel) UnmarshalText(b []byte) error {
	for v := SkillLow; v <= SkillHigh; v++ {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid skill level %q", string(b))
}
