package state

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/types"
)

type boardsState struct {
	boards  []types.Board
	current *types.Board
	err     string
}

// BoardsSnapshot is the board slice's point-in-time state.
type BoardsSnapshot struct {
	Boards  []types.Board
	Current *types.Board
	Err     string
}

// Boards returns the current board slice snapshot.
func (s *Store) Boards() BoardsSnapshot {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()

	snap := BoardsSnapshot{
		Boards: append([]types.Board(nil), s.boards.boards...),
		Err:    s.boards.err,
	}
	if s.boards.current != nil {
		b := *s.boards.current
		snap.Current = &b
	}
	return snap
}

// FetchBoards loads the full collection from the local store into the slice.
func (s *Store) FetchBoards(ctx context.Context) ([]types.Board, error) {
	boards, err := s.local.LoadBoards()
	if err != nil {
		s.setBoardsError(displayMessage(err, "Failed to fetch boards"))
		return nil, err
	}

	s.boardsMu.Lock()
	s.boards.boards = boards
	s.boards.err = ""
	s.boardsMu.Unlock()

	return append([]types.Board(nil), boards...), nil
}

// CreateBoardInput is the caller-supplied part of a new board.
type CreateBoardInput struct {
	Title       string
	Description string
	Color       string
}

// CreateBoard creates a board owned by the signed-in user and persists the
// grown collection write-through. Rejects when no user is authenticated; the
// local store is left untouched in that case.
func (s *Store) CreateBoard(ctx context.Context, in CreateBoardInput) (*types.Board, error) {
	auth := s.Auth()
	if !auth.IsAuthenticated || auth.User == nil {
		s.setBoardsError(types.ErrNotAuthenticated.Error())
		return nil, types.ErrNotAuthenticated
	}

	now := time.Now().UTC()
	board := types.Board{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		UserID:      auth.User.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := board.Validate(); err != nil {
		s.setBoardsError(displayMessage(err, "Failed to create board"))
		return nil, err
	}

	boards, err := s.local.UpdateBoards(func(boards []types.Board) ([]types.Board, error) {
		return append(boards, board), nil
	})
	if err != nil {
		s.setBoardsError(displayMessage(err, "Failed to create board"))
		return nil, err
	}

	s.boardsMu.Lock()
	s.boards.boards = boards
	s.boards.err = ""
	s.boardsMu.Unlock()

	s.publish(EventBoardChange, "created", board.ID)
	return &board, nil
}

// UpdateBoardInput patches a board. Nil fields are left as they are.
type UpdateBoardInput struct {
	ID          string
	Title       *string
	Description *string
	Color       *string
}

// UpdateBoard applies the patch to the stored board, stamps UpdatedAt, and
// persists the collection write-through.
func (s *Store) UpdateBoard(ctx context.Context, in UpdateBoardInput) (*types.Board, error) {
	var updated types.Board
	boards, err := s.local.UpdateBoards(func(boards []types.Board) ([]types.Board, error) {
		idx := -1
		for i := range boards {
			if boards[i].ID == in.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, types.ErrBoardNotFound
		}

		board := boards[idx]
		if in.Title != nil {
			board.Title = *in.Title
		}
		if in.Description != nil {
			board.Description = *in.Description
		}
		if in.Color != nil {
			board.Color = *in.Color
		}
		board.UpdatedAt = time.Now().UTC()

		boards[idx] = board
		updated = board
		return boards, nil
	})
	if err != nil {
		s.setBoardsError(displayMessage(err, "Failed to update board"))
		return nil, err
	}

	s.boardsMu.Lock()
	s.boards.boards = boards
	if s.boards.current != nil && s.boards.current.ID == updated.ID {
		b := updated
		s.boards.current = &b
	}
	s.boards.err = ""
	s.boardsMu.Unlock()

	s.publish(EventBoardChange, "updated", updated.ID)
	b := updated
	return &b, nil
}

// DeleteBoard removes a board from the collection and persists write-through.
// Deleting the currently-selected board also clears the selection, so the
// slice never points at a board that no longer exists.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	boards, err := s.local.UpdateBoards(func(boards []types.Board) ([]types.Board, error) {
		kept := boards[:0]
		for _, b := range boards {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		return kept, nil
	})
	if err != nil {
		s.setBoardsError(displayMessage(err, "Failed to delete board"))
		return err
	}

	s.boardsMu.Lock()
	s.boards.boards = boards
	if s.boards.current != nil && s.boards.current.ID == id {
		s.boards.current = nil
	}
	s.boards.err = ""
	s.boardsMu.Unlock()

	s.publish(EventBoardChange, "deleted", id)
	return nil
}

// FetchBoardByID loads a single board from the local store and makes it the
// current selection.
func (s *Store) FetchBoardByID(ctx context.Context, id string) (*types.Board, error) {
	boards, err := s.local.LoadBoards()
	if err != nil {
		s.setBoardsError(displayMessage(err, "Failed to fetch board"))
		return nil, err
	}

	for i := range boards {
		if boards[i].ID == id {
			board := boards[i]
			s.boardsMu.Lock()
			s.boards.current = &board
			s.boards.err = ""
			s.boardsMu.Unlock()
			b := board
			return &b, nil
		}
	}

	s.setBoardsError(types.ErrBoardNotFound.Error())
	return nil, types.ErrBoardNotFound
}

// SetCurrentBoard sets (or clears, with nil) the current board selection.
func (s *Store) SetCurrentBoard(board *types.Board) {
	s.boardsMu.Lock()
	if board == nil {
		s.boards.current = nil
	} else {
		b := *board
		s.boards.current = &b
	}
	s.boardsMu.Unlock()
}

// ClearBoardsError drops the stored board display error.
func (s *Store) ClearBoardsError() {
	s.boardsMu.Lock()
	s.boards.err = ""
	s.boardsMu.Unlock()
}

func (s *Store) setBoardsError(msg string) {
	s.boardsMu.Lock()
	s.boards.err = msg
	s.boardsMu.Unlock()
}
