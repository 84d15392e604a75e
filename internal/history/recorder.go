package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// Extension of history files
const Extension = ".toml"

// Recorder appends every finished round to <dir>/<game id>.toml. It is a
// game.EventSubscriber; write failures are logged rather than returned since
// the game has already moved on.
type Recorder struct {
	dir    string
	logger *log.Logger

	mu sync.Mutex
}

// NewRecorder creates dir if needed and returns a recorder writing into it
func NewRecorder(dir string, logger *log.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, fmt.Errorf("history: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &Recorder{dir: dir, logger: logger.WithPrefix("history")}, nil
}

// Dir returns the directory history files are written to
func (r *Recorder) Dir() string {
	return r.dir
}

// Path returns the history file for a game. IDs that are not a plain file
// name are rejected.
func (r *Recorder) Path(gameID string) (string, error) {
	if gameID == "" || gameID == "." || gameID == ".." || filepath.Base(gameID) != gameID {
		return "", fmt.Errorf("history: invalid game id %q", gameID)
	}
	return filepath.Join(r.dir, gameID+Extension), nil
}

// OnEvent records round end events and ignores everything else
func (r *Recorder) OnEvent(event game.GameEvent) {
	e, ok := event.(game.RoundEndEvent)
	if !ok {
		return
	}
	if err := r.Record(FromEvent(e)); err != nil {
		r.logger.Error("Failed to record round", "game", e.GameID, "error", err)
		return
	}
	r.logger.Debug("Recorded round", "game", e.GameID, "seats", len(e.Results))
}

// Record appends one round to its game's history file
func (r *Recorder) Record(round *Round) error {
	path, err := r.Path(round.Game)
	if err != nil {
		return err
	}
	data, err := EncodeToBytes(round)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return fileutil.AppendFile(path, data, 0o644)
}

// Load reads the history of a game recorded in this directory
func (r *Recorder) Load(gameID string) (*Log, error) {
	path, err := r.Path(gameID)
	if err != nil {
		return nil, err
	}
	return ReadFile(path)
}

// ReadFile decodes a history file
func ReadFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
