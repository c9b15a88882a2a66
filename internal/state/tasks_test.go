package state

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/types"
)

func TestCreateTaskRequiresAuth(t *testing.T) {
	s := newTestStore(t, authMux(t))
	ctx := context.Background()

	_, err := s.CreateTask(ctx, CreateTaskInput{Title: "Sneaky", BoardID: "b1"})
	if !errors.Is(err, types.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}

	tasks, err := s.local.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("persisted %d tasks after rejected create", len(tasks))
	}
}

func TestCreateTaskDefaultsAndPersists(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, CreateTaskInput{Title: "Write report", BoardID: "b1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != types.StatusTodo {
		t.Errorf("status = %q, want default todo", task.Status)
	}
	if task.Priority != types.PriorityMedium {
		t.Errorf("priority = %q, want default medium", task.Priority)
	}

	persisted, err := s.local.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != task.ID {
		t.Errorf("persisted tasks = %+v, want the created task", persisted)
	}
}

func TestMoveTaskChangesOnlyStatus(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, CreateTaskInput{
		Title:    "Column hopper",
		Priority: types.PriorityHigh,
		Tags:     []string{"urgent"},
		BoardID:  "b1",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	moved, err := s.MoveTask(ctx, created.ID, types.StatusDone)
	if err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if moved.Status != types.StatusDone {
		t.Errorf("status = %q, want done", moved.Status)
	}
	if moved.Priority != created.Priority || moved.Title != created.Title {
		t.Error("move must not touch fields other than status")
	}
	if len(moved.Tags) != 1 || moved.Tags[0] != "urgent" {
		t.Errorf("tags = %v, move must preserve them", moved.Tags)
	}
	if !moved.UpdatedAt.After(created.UpdatedAt) && !moved.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}
	if !moved.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must not change on move")
	}
}

func TestMoveTaskRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t, authMux(t))

	if _, err := s.MoveTask(context.Background(), "t1", types.Status("archived")); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestUpdateTaskMissing(t *testing.T) {
	s := newTestStore(t, authMux(t))

	title := "x"
	_, err := s.UpdateTask(context.Background(), UpdateTaskInput{ID: "nope", Title: &title})
	if !errors.Is(err, types.ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteTaskRemovesFromCollection(t *testing.T) {
	s := newTestStore(t, authMux(t))
	loginTestUser(t, s)
	ctx := context.Background()

	keep, err := s.CreateTask(ctx, CreateTaskInput{Title: "Keep", BoardID: "b1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	drop, err := s.CreateTask(ctx, CreateTaskInput{Title: "Drop", BoardID: "b1"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := s.DeleteTask(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	tasks, err := s.local.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("tasks after delete = %+v, want only %q", tasks, keep.ID)
	}
}

func TestFetchTasksMapsWireVocabulary(t *testing.T) {
	date := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mux := authMux(t)
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"items": []map[string]any{
				{"id": 1, "title": "Ship it", "status": "InProgress", "priority": "High", "date": date},
				{"id": 2, "title": "Mystery", "status": "Unknowable"},
			},
			"meta": map[string]any{"total": 2},
		})
	})
	s := newTestStore(t, mux)

	tasks, err := s.FetchTasksByBoard(context.Background(), "b1", TaskFilter{})
	if err != nil {
		t.Fatalf("FetchTasksByBoard failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	if tasks[0].Status != types.StatusInProgress || tasks[0].Priority != types.PriorityHigh {
		t.Errorf("task 0 = %q/%q, wire vocabulary not mapped", tasks[0].Status, tasks[0].Priority)
	}
	if tasks[0].ID != "srv-1" {
		t.Errorf("task 0 ID = %q, want srv-1", tasks[0].ID)
	}
	if !tasks[0].CreatedAt.Equal(date) {
		t.Errorf("task 0 CreatedAt = %v, want backend date", tasks[0].CreatedAt)
	}
	if tasks[0].BoardID != "b1" {
		t.Errorf("task 0 board = %q, want b1", tasks[0].BoardID)
	}

	// Unknown vocabulary degrades to defaults instead of failing the list.
	if tasks[1].Status != types.StatusTodo || tasks[1].Priority != types.PriorityMedium {
		t.Errorf("task 1 = %q/%q, want todo/medium defaults", tasks[1].Status, tasks[1].Priority)
	}
}

func TestFetchTasksCachesPerQuery(t *testing.T) {
	fetches := 0
	mux := authMux(t)
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		writeJSON(t, w, map[string]any{"items": []any{}})
	})
	s := newTestStore(t, mux)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.FetchTasksByBoard(ctx, "b1", TaskFilter{Limit: 10}); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if fetches != 1 {
		t.Errorf("backend fetches = %d, want 1 (cached)", fetches)
	}

	// A different query is a different cache entry.
	if _, err := s.FetchTasksByBoard(ctx, "b1", TaskFilter{Limit: 20}); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if fetches != 2 {
		t.Errorf("backend fetches = %d, want 2", fetches)
	}
}
