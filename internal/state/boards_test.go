package state

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/types"
)

func TestCreateBoardRequiresAuth(t *testing.T) {
	s := newTestStore(t, authMux(t))
	ctx := context.Background()

	_, err := s.CreateBoard(ctx, CreateBoardInput{Title: "Sneaky"})
	if !errors.Is(err, types.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if snap := s.Boards(); snap.Err != "User not authenticated" {
		t.Errorf("board error = %q, want User not authenticated", snap.Err)
	}

	// The rejection must not have touched the persisted collection.
	boards, err := s.local.LoadBoards()
	if err != nil {
		t.Fatalf("LoadBoards failed: %v", err)
	}
	if len(boards) != 0 {
		t.Errorf("persisted %d boards after rejected create", len(boards))
	}
}

func TestCreateBoardPersists(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	board, err := s.CreateBoard(ctx, CreateBoardInput{Title: "Work", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	if board.ID == "" {
		t.Error("expected generated board ID")
	}
	if board.UserID != "7" {
		t.Errorf("board owner = %q, want the signed-in user", board.UserID)
	}
	if board.CreatedAt.IsZero() || !board.CreatedAt.Equal(board.UpdatedAt) {
		t.Error("expected matching creation timestamps")
	}

	persisted, err := s.local.LoadBoards()
	if err != nil {
		t.Fatalf("LoadBoards failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != board.ID {
		t.Errorf("persisted boards = %+v, want the created board", persisted)
	}
}

func TestUpdateBoardPatchesAndSyncsCurrent(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	board, err := s.CreateBoard(ctx, CreateBoardInput{Title: "Old", Description: "keep me"})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	s.SetCurrentBoard(board)

	title := "New"
	updated, err := s.UpdateBoard(ctx, UpdateBoardInput{ID: board.ID, Title: &title})
	if err != nil {
		t.Fatalf("UpdateBoard failed: %v", err)
	}
	if updated.Title != "New" {
		t.Errorf("title = %q, want New", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Errorf("description = %q, patch must not clear unset fields", updated.Description)
	}

	snap := s.Boards()
	if snap.Current == nil || snap.Current.Title != "New" {
		t.Error("current selection not synced with the update")
	}
}

func TestUpdateBoardMissing(t *testing.T) {
	s := newTestStore(t, authMux(t))
	ctx := context.Background()

	title := "x"
	_, err := s.UpdateBoard(ctx, UpdateBoardInput{ID: "nope", Title: &title})
	if !errors.Is(err, types.ErrBoardNotFound) {
		t.Fatalf("err = %v, want ErrBoardNotFound", err)
	}
}

func TestDeleteBoardClearsCurrentSelection(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	board, err := s.CreateBoard(ctx, CreateBoardInput{Title: "Doomed"})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	s.SetCurrentBoard(board)

	if err := s.DeleteBoard(ctx, board.ID); err != nil {
		t.Fatalf("DeleteBoard failed: %v", err)
	}

	snap := s.Boards()
	if snap.Current != nil {
		t.Error("deleting the selected board must clear the selection")
	}
	if len(snap.Boards) != 0 {
		t.Errorf("boards = %+v, want empty", snap.Boards)
	}
}

func TestFetchBoardByIDSetsCurrent(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	board, err := s.CreateBoard(ctx, CreateBoardInput{Title: "Target"})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}

	got, err := s.FetchBoardByID(ctx, board.ID)
	if err != nil {
		t.Fatalf("FetchBoardByID failed: %v", err)
	}
	if got.ID != board.ID {
		t.Errorf("fetched %q, want %q", got.ID, board.ID)
	}
	if snap := s.Boards(); snap.Current == nil || snap.Current.ID != board.ID {
		t.Error("fetched board not set as current")
	}

	if _, err := s.FetchBoardByID(ctx, "missing"); !errors.Is(err, types.ErrBoardNotFound) {
		t.Errorf("err = %v, want ErrBoardNotFound", err)
	}
}
