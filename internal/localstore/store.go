// Package localstore persists board and task collections as flat JSON arrays
// on disk, one file per collection, written whole on every mutation.
//
// The store is the system of record for boards and for tasks created on the
// local path (operations the backend does not yet support). There is no merge
// semantics: callers read-modify-write the entire collection, and the store
// serializes those cycles with a per-collection mutex so two rapid mutations
// cannot interleave their read and write halves.
package localstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	// BoardsFile is the boards collection filename under the data directory.
	BoardsFile = "boards.json"
	// TasksFile is the tasks collection filename under the data directory.
	TasksFile = "tasks.json"
)

// Options configures a Store.
type Options struct {
	// SeedBoards controls whether a first load of the boards collection
	// (missing or unreadable file) returns seeded sample boards instead of
	// an empty collection. Tasks always fall back to empty.
	SeedBoards bool

	// Logger for store activity. Defaults to a stderr logger.
	Logger *log.Logger
}

// Store reads and writes the board and task collections.
type Store struct {
	dir        string
	seedBoards bool
	logger     *log.Logger

	boardsMu sync.Mutex
	tasksMu  sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, opts Options) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[localstore] ", log.LstdFlags)
	}
	return &Store{
		dir:        dir,
		seedBoards: opts.SeedBoards,
		logger:     logger,
	}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// BoardsPath returns the path of the boards collection file.
func (s *Store) BoardsPath() string {
	return filepath.Join(s.dir, BoardsFile)
}

// TasksPath returns the path of the tasks collection file.
func (s *Store) TasksPath() string {
	return filepath.Join(s.dir, TasksFile)
}

// load reads a collection file into out. Returns os.ErrNotExist when the file
// is absent; a parse failure is returned as-is for the caller's fallback.
func (s *Store) load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// save serializes a collection and overwrites the file whole. The write goes
// through a temp file and rename so a crash mid-write cannot leave a torn
// collection behind.
func (s *Store) save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
