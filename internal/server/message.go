package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

type CreateGameData struct {
	Table string `json:"table,omitempty"` // configured table template, default "main"
	Human string `json:"human,omitempty"` // overrides the template's human name
}

// GameRequest addresses a game and, for seat commands, a position
type GameRequest struct {
	GameID   string `json:"gameId"`
	Position int    `json:"position,omitempty"`
}

type AddPlayerData struct {
	GameID string `json:"gameId"`
	Skill  string `json:"skill"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameStateData is sent after every change to a game
type GameStateData struct {
	Game       GameView    `json:"game"`
	Card       *deck.Card  `json:"card,omitempty"` // drawn by a hit
	Reshuffled bool        `json:"reshuffled,omitempty"`
	Autoplay   []AutoTurn  `json:"autoplay,omitempty"`
	Dealer     *DealerTurn `json:"dealer,omitempty"`
	Player     *SeatView   `json:"player,omitempty"` // added or removed
}

type AutoTurn struct {
	Position int               `json:"position"`
	Name     string            `json:"name"`
	Drawn    []deck.Card       `json:"drawn"`
	Value    int               `json:"value"`
	Status   game.PlayerStatus `json:"status"`
}

type DealerTurn struct {
	HoleCard deck.Card   `json:"hole_card"`
	Drawn    []deck.Card `json:"drawn"`
	Value    int         `json:"value"`
	Busted   bool        `json:"busted"`
}

// AdviceData is the dashboard for one seat: the count and, when the seat
// can act, the basic-strategy play.
type AdviceData struct {
	GameID   string           `json:"gameId"`
	Position int              `json:"position"`
	Count    counting.Summary `json:"count"`
	Strategy *strategy.Advice `json:"strategy,omitempty"`
}

// GameView is the public view of a table. The dealer's hole card is hidden
// until the round is finished and the shoe order is never sent.
type GameView struct {
	ID              string           `json:"id"`
	Status          game.GameStatus  `json:"status"`
	CurrentPosition int              `json:"current_player_position"`
	DeckCount       int              `json:"deck_count"`
	CardsRemaining  int              `json:"cards_remaining"`
	Dealer          DealerView       `json:"dealer"`
	Players         []SeatView       `json:"players"`
	Count           counting.Summary `json:"count"`
}

type DealerView struct {
	Cards  []deck.Card       `json:"cards"`
	Hidden int               `json:"hidden_cards"`
	Value  int               `json:"value"` // of the visible cards
	Status game.PlayerStatus `json:"status"`
}

type SeatView struct {
	Name     string             `json:"name"`
	Position int                `json:"position"`
	Computer bool               `json:"is_computer"`
	Skill    *game.SkillLevel   `json:"skill_level,omitempty"`
	Cards    []deck.Card        `json:"cards"`
	Value    int                `json:"value"`
	Soft     bool               `json:"soft"`
	Status   game.PlayerStatus  `json:"status"`
	Result   *game.PlayerResult `json:"result,omitempty"`
}

// NewGameView builds the public view of g
func NewGameView(g *game.Game) GameView {
	seated := g.Seated()
	view := GameView{
		ID:              g.ID,
		Status:          g.Status,
		CurrentPosition: g.CurrentPosition,
		DeckCount:       g.Shoe().DeckCount(),
		CardsRemaining:  g.Shoe().Remaining(),
		Dealer:          dealerView(g),
		Players:         make([]SeatView, len(seated)),
		Count:           counting.Summarize(g.Revealed(), g.Shoe().Remaining()),
	}
	for i, p := range seated {
		view.Players[i] = seatView(p)
	}
	return view
}

func dealerView(g *game.Game) DealerView {
	dealer := g.Dealer()
	cards := dealer.Hand.Cards()
	view := DealerView{Cards: cards, Value: dealer.Value(), Status: dealer.Status}
	if g.Status != game.StatusFinished && len(cards) > 1 {
		visible := game.NewHand(cards[0])
		view.Cards = visible.Cards()
		view.Hidden = len(cards) - 1
		view.Value = visible.BestValue()
		view.Status = game.PlayerWaiting
	}
	return view
}

func seatView(p *game.Player) SeatView {
	view := SeatView{
		Name:     p.Name,
		Position: p.Position,
		Computer: p.Role.IsComputer(),
		Cards:    p.Hand.Cards(),
		Value:    p.Value(),
		Soft:     p.Soft(),
		Status:   p.Status,
	}
	if skill, ok := p.Role.Skill(); ok {
		view.Skill = &skill
	}
	if p.Result != game.ResultNone {
		r := p.Result
		view.Result = &r
	}
	return view
}
