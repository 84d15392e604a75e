package game

import "errors"

// Precondition failures. Operations that return one of these have not
// changed the game.
var (
	ErrNotWaiting    = errors.New("game not in waiting state")
	ErrNoPlayers     = errors.New("no players at table")
	ErrNotPlaying    = errors.New("game not in playing state")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotDealerTurn = errors.New("not dealer's turn")
	ErrNotFinished   = errors.New("game not finished")
	ErrTableFull     = errors.New("table is full")
	ErrCannotRemove  = errors.New("cannot remove this player")
	ErrUnknownPlayer = errors.New("no player at position")
	ErrInvalidRole   = errors.New("invalid role for a seat")
)

// ErrInvalidSnapshot wraps every reason a snapshot is rejected on load
var ErrInvalidSnapshot = errors.New("invalid snapshot")
