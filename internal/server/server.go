package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/auth"
)

// ServerOption configures a Server
type ServerOption func(*Server)

// WithAuth requires connecting players to present a token accepted by
// validator. With failOpen set, players are let in while the auth service
// is unavailable.
func WithAuth(validator auth.Validator, failOpen bool) ServerOption {
	return func(s *Server) {
		s.validator = validator
		s.failOpen = failOpen
	}
}

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	clock       quartz.Clock
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	gameService *GameService
	httpServer  *http.Server
	validator   auth.Validator
	failOpen    bool
}

// NewServer creates a new WebSocket server. A nil clock uses the real clock.
func NewServer(addr string, gameService *GameService, logger *log.Logger, clock quartz.Clock, opts ...ServerOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	if clock == nil {
		clock = quartz.NewReal()
	}

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// local play; clients are expected on any origin
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		clock:       clock,
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
		validator:   auth.NewNoopValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens on the configured address until Stop is called
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection and shuts the listener down
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "conn", conn.ID(), "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	_ = conn.Close()
	s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := s.validator.Validate(r.Context(), auth.TokenFromRequest(r))
	switch {
	case errors.Is(err, auth.ErrUnavailable) && s.failOpen:
		s.logger.Warn("Auth unavailable, allowing connection", "remote", r.RemoteAddr, "error", err)
	case errors.Is(err, auth.ErrUnavailable):
		s.logger.Warn("Auth unavailable, rejecting connection", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "authentication unavailable", http.StatusServiceUnavailable)
		return
	case err != nil:
		s.logger.Info("Rejected connection", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s)
	client.identity = identity
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// broadcastState sends a game_state to every other connection watching the
// same game
func (s *Server) broadcastState(from *Connection, state GameStateData) {
	msg, err := NewMessage(MessageTypeGameState, state, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to create game state message", "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn == from || conn.GetGame() != state.Game.ID {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to client", "conn", conn.ID(), "error", err)
			continue
		}
		count++
	}
	if count > 0 {
		s.logger.Debug("Broadcast game state", "game", state.Game.ID, "recipients", count)
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
