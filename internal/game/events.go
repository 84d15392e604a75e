package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeRoundStart     EventType = "round_start"
	EventTypeCardDealt      EventType = "card_dealt"
	EventTypePlayerAction   EventType = "player_action"
	EventTypeRoundEnd       EventType = "round_end"
	EventTypeShoeReshuffled EventType = "shoe_reshuffled"
	EventTypePlayerJoined   EventType = "player_joined"
	EventTypePlayerLeft     EventType = "player_left"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Action is a move a player makes on their turn
type Action string

const (
	ActionHit   Action = "hit"
	ActionStand Action = "stand"
)

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// SeatInfo is a copy of the parts of a player events carry
type SeatInfo struct {
	Name     string
	Position int
	Role     Role
}

func seatInfo(p *Player) SeatInfo {
	return SeatInfo{Name: p.Name, Position: p.Position, Role: p.Role}
}

// RoundStartEvent is published when cards are about to be dealt
type RoundStartEvent struct {
	GameID    string
	Seats     []SeatInfo
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

func newRoundStartEvent(now time.Time, gameID string, seated []*Player) RoundStartEvent {
	seats := make([]SeatInfo, len(seated))
	for i, p := range seated {
		seats[i] = seatInfo(p)
	}
	return RoundStartEvent{GameID: gameID, Seats: seats, timestamp: now}
}

// CardDealtEvent is published for every card leaving the shoe, and when the
// dealer's hole card is turned over. Subscribers must not show the card when
// Revealed is false.
type CardDealtEvent struct {
	Seat      SeatInfo
	Card      deck.Card
	Revealed  bool
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

func newCardDealtEvent(now time.Time, p *Player, c deck.Card, revealed bool) CardDealtEvent {
	return CardDealtEvent{Seat: seatInfo(p), Card: c, Revealed: revealed, timestamp: now}
}

// PlayerActionEvent is published when a player hits or stands
type PlayerActionEvent struct {
	Seat      SeatInfo
	Action    Action
	Card      *deck.Card // set for hits
	Value     int
	Status    PlayerStatus
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

func newPlayerActionEvent(now time.Time, p *Player, action Action, card *deck.Card) PlayerActionEvent {
	return PlayerActionEvent{
		Seat:      seatInfo(p),
		Action:    action,
		Card:      card,
		Value:     p.Value(),
		Status:    p.Status,
		timestamp: now,
	}
}

// SeatResult is a settled seat in a RoundEndEvent
type SeatResult struct {
	Seat   SeatInfo
	Cards  []deck.Card
	Value  int
	Result PlayerResult
}

// RoundEndEvent is published once the dealer has played and seats are settled
type RoundEndEvent struct {
	GameID       string
	DealerHand   []deck.Card
	DealerValue  int
	DealerBusted bool
	Results      []SeatResult
	Revealed     []deck.Card // every card disclosed since the count was last reset
	Remaining    int         // cards left in the shoe
	timestamp    time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

func newRoundEndEvent(now time.Time, g *Game) RoundEndEvent {
	dealer := g.Dealer()
	seated := g.Seated()
	results := make([]SeatResult, len(seated))
	for i, p := range seated {
		results[i] = SeatResult{Seat: seatInfo(p), Cards: p.Hand.Cards(), Value: p.Value(), Result: p.Result}
	}
	return RoundEndEvent{
		GameID:       g.ID,
		DealerHand:   dealer.Hand.Cards(),
		DealerValue:  dealer.Value(),
		DealerBusted: dealer.Busted(),
		Results:      results,
		Revealed:     g.Revealed(),
		Remaining:    g.shoe.Remaining(),
		timestamp:    now,
	}
}

// ShoeReshuffledEvent is published when a new round starts from a fresh shoe
type ShoeReshuffledEvent struct {
	Remaining int
	timestamp time.Time
}

func (e ShoeReshuffledEvent) EventType() EventType { return EventTypeShoeReshuffled }
func (e ShoeReshuffledEvent) Timestamp() time.Time { return e.timestamp }

func newShoeReshuffledEvent(now time.Time, remaining int) ShoeReshuffledEvent {
	return ShoeReshuffledEvent{Remaining: remaining, timestamp: now}
}

// PlayerJoinedEvent is published when a seat is taken
type PlayerJoinedEvent struct {
	Seat      SeatInfo
	timestamp time.Time
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.timestamp }

func newPlayerJoinedEvent(now time.Time, p *Player) PlayerJoinedEvent {
	return PlayerJoinedEvent{Seat: seatInfo(p), timestamp: now}
}

// PlayerLeftEvent is published when a computer player is removed
type PlayerLeftEvent struct {
	Seat      SeatInfo
	timestamp time.Time
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.timestamp }

func newPlayerLeftEvent(now time.Time, p *Player) PlayerLeftEvent {
	return PlayerLeftEvent{Seat: seatInfo(p), timestamp: now}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber. Function values are
// not comparable, so a SubscriberFunc cannot be unsubscribed.
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Like the game itself
// it is not safe for concurrent use.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
