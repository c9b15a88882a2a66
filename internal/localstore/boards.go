package localstore

import (
	"os"

	"github.com/taskdeck/taskdeck/internal/types"
)

// LoadBoards reads the full boards collection.
//
// A missing file yields the seeded default collection when seeding is enabled
// (the seeds are written back so the next load sees the same data), otherwise
// an empty collection. A file that fails to parse gets the same fallback; the
// parse error is logged, never surfaced.
func (s *Store) LoadBoards() ([]types.Board, error) {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()
	return s.loadBoardsLocked()
}

func (s *Store) loadBoardsLocked() ([]types.Board, error) {
	var boards []types.Board
	err := s.load(s.BoardsPath(), &boards)
	if err == nil {
		if boards == nil {
			boards = []types.Board{}
		}
		return boards, nil
	}
	if !os.IsNotExist(err) {
		s.logger.Printf("Warning: unreadable boards collection, falling back: %v", err)
	}
	if !s.seedBoards {
		return []types.Board{}, nil
	}
	seeds := SeedBoards()
	if err := s.save(s.BoardsPath(), seeds); err != nil {
		s.logger.Printf("Warning: failed to persist seed boards: %v", err)
	}
	return seeds, nil
}

// SaveBoards serializes the full boards collection, overwriting the file.
func (s *Store) SaveBoards(boards []types.Board) error {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()
	return s.saveBoardsLocked(boards)
}

func (s *Store) saveBoardsLocked(boards []types.Board) error {
	if boards == nil {
		boards = []types.Board{}
	}
	return s.save(s.BoardsPath(), boards)
}

// UpdateBoards runs a read-modify-write cycle on the boards collection under
// the collection lock. fn receives the current collection and returns the
// collection to persist. If fn fails, nothing is written.
func (s *Store) UpdateBoards(fn func(boards []types.Board) ([]types.Board, error)) ([]types.Board, error) {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()

	boards, err := s.loadBoardsLocked()
	if err != nil {
		return nil, err
	}
	updated, err := fn(boards)
	if err != nil {
		return nil, err
	}
	if err := s.saveBoardsLocked(updated); err != nil {
		return nil, err
	}
	return updated, nil
}
