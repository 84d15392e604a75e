package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/auth"
	"github.com/lox/blackjack/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	gameID    string         // the game this client last created or acted on
	identity  *auth.Identity // nil when auth is disabled
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(server.ctx)
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: server.logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection's unique identifier
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetGame associates this connection with a game
func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// GetGame returns the associated game ID
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = errors.New("connection closed")

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	svc := c.server.gameService
	if svc == nil {
		c.sendError(msg, "service_unavailable", "Game service not available")
		return
	}

	var (
		state GameStateData
		err   error
	)

	switch msg.Type {
	case MessageTypeCreateGame:
		var data CreateGameData
		if !c.decode(msg, &data) {
			return
		}
		if data.Human == "" && c.identity != nil {
			data.Human = c.identity.SeatName()
		}
		state, err = svc.CreateGame(c.ctx, data)

	case MessageTypeDeal, MessageTypeNewRound, MessageTypeState:
		var data GameRequest
		if !c.decode(msg, &data) {
			return
		}
		switch msg.Type {
		case MessageTypeDeal:
			state, err = svc.Deal(c.ctx, data.GameID)
		case MessageTypeNewRound:
			state, err = svc.NewRound(c.ctx, data.GameID)
		default:
			state, err = svc.State(c.ctx, data.GameID)
		}

	case MessageTypeHit, MessageTypeStand, MessageTypeRemovePlayer:
		var data GameRequest
		if !c.decode(msg, &data) {
			return
		}
		switch msg.Type {
		case MessageTypeHit:
			state, err = svc.Hit(c.ctx, data.GameID, data.Position)
		case MessageTypeStand:
			state, err = svc.Stand(c.ctx, data.GameID, data.Position)
		default:
			state, err = svc.RemovePlayer(c.ctx, data.GameID, data.Position)
		}

	case MessageTypeAddPlayer:
		var data AddPlayerData
		if !c.decode(msg, &data) {
			return
		}
		skill, perr := game.ParseSkillLevel(data.Skill)
		if perr != nil {
			c.sendError(msg, "invalid_message", perr.Error())
			return
		}
		state, err = svc.AddPlayer(c.ctx, data.GameID, skill)

	case MessageTypeAdvice:
		var data GameRequest
		if !c.decode(msg, &data) {
			return
		}
		advice, aerr := svc.Advice(c.ctx, data.GameID, data.Position)
		if aerr != nil {
			c.sendError(msg, errorCode(aerr), aerr.Error())
			return
		}
		c.reply(msg, MessageTypeAdviceFor, advice)
		return

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if err != nil {
		c.logger.Debug("Command failed", "type", msg.Type, "error", err)
		c.sendError(msg, errorCode(err), err.Error())
		return
	}

	c.SetGame(state.Game.ID)
	c.reply(msg, MessageTypeGameState, state)
	if msg.Type != MessageTypeState {
		c.server.broadcastState(c, state)
	}
}

func (c *Connection) decode(msg *Message, v any) bool {
	if len(msg.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendError(msg, "invalid_message", "Failed to parse "+msg.Type.String()+" data")
		return false
	}
	return true
}

func (c *Connection) reply(req *Message, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *Message, code, message string) {
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}
