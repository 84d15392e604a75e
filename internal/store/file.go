package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

const snapshotExt = ".json"

// FileStore keeps one JSON file per game in a directory. Files are replaced
// atomically and validated against the snapshot schema when read.
type FileStore struct {
	dir       string
	locks     *locks
	validator *Validator
	logger    *log.Logger
}

// NewFileStore creates dir if needed and returns a store backed by it
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &FileStore{
		dir:       dir,
		locks:     newLocks(),
		validator: validator,
		logger:    logger.WithPrefix("store"),
	}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" {
		return "", ErrNoID
	}
	if id == "." || id == ".." || filepath.Base(id) != id {
		return "", fmt.Errorf("invalid game id %q", id)
	}
	return filepath.Join(s.dir, id+snapshotExt), nil
}

func (s *FileStore) Create(ctx context.Context, snap game.Snapshot) error {
	path, err := s.path(snap.ID)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(snap.ID)
	defer unlock()

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", snap.ID, ErrExists)
	}
	if err := s.write(path, snap); err != nil {
		return err
	}
	s.logger.Debug("Created game", "game", snap.ID, "path", path)
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (game.Snapshot, error) {
	path, err := s.path(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.read(id, path)
}

func (s *FileStore) Update(ctx context.Context, id string, fn func(*game.Snapshot) error) (game.Snapshot, error) {
	path, err := s.path(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	unlock := s.locks.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}

	snap, err := s.read(id, path)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := fn(&snap); err != nil {
		return game.Snapshot{}, err
	}
	if snap.ID != id {
		return game.Snapshot{}, fmt.Errorf("update changed game id from %q to %q", id, snap.ID)
	}
	if err := s.write(path, snap); err != nil {
		return game.Snapshot{}, err
	}
	return snap, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	unlock := s.locks.lock(id)
	defer unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("store: %w", err)
	}
	s.locks.forget(id)
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		// skip in-flight temp files from WriteAtomic
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, snapshotExt))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) read(id, path string) (game.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return game.Snapshot{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return game.Snapshot{}, fmt.Errorf("store: %w", err)
	}
	if err := s.validator.ValidateSnapshot(data); err != nil {
		return game.Snapshot{}, fmt.Errorf("%s: %w: %w", id, game.ErrInvalidSnapshot, err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("%s: %w: %w", id, game.ErrInvalidSnapshot, err)
	}
	return snap, nil
}

func (s *FileStore) write(path string, snap game.Snapshot) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	})
	if err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}
	return nil
}
