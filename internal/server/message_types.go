package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeCreateGame   MessageType = "create_game"
	MessageTypeDeal         MessageType = "deal"
	MessageTypeHit          MessageType = "hit"
	MessageTypeStand        MessageType = "stand"
	MessageTypeAddPlayer    MessageType = "add_player"
	MessageTypeRemovePlayer MessageType = "remove_player"
	MessageTypeNewRound     MessageType = "new_round"
	MessageTypeState        MessageType = "state"
	MessageTypeAdvice       MessageType = "advice"

	// Server to client messages
	MessageTypeGameState MessageType = "game_state"
	MessageTypeAdviceFor MessageType = "advice_result"
	MessageTypeError     MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
