package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/types"
)

type tasksState struct {
	tasks []types.Task
	err   string
}

// TasksSnapshot is the task slice's point-in-time state.
type TasksSnapshot struct {
	Tasks []types.Task
	Err   string
}

// Tasks returns the current task slice snapshot.
func (s *Store) Tasks() TasksSnapshot {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	return TasksSnapshot{
		Tasks: append([]types.Task(nil), s.tasks.tasks...),
		Err:   s.tasks.err,
	}
}

// TaskFilter narrows a backend task list query. Vocabulary is the client's;
// translation to the wire happens here.
type TaskFilter struct {
	Search     string
	Status     types.Status
	Priority   types.Priority
	CategoryID int64
	From       string
	To         string
	Page       int
	Limit      int
}

// FetchTasksByBoard loads the board's tasks from the backend through the
// cache layer and maps them into the client shape: wire vocabulary becomes
// the client enumerations, and the backend's single date field becomes the
// created/updated stamps.
//
// This is the server-sourced path; tasks created locally live in the local
// store and are not merged into this list.
func (s *Store) FetchTasksByBoard(ctx context.Context, boardID string, filter TaskFilter) ([]types.Task, error) {
	query := api.TaskQuery{
		Search:     filter.Search,
		CategoryID: filter.CategoryID,
		From:       filter.From,
		To:         filter.To,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.Status != "" {
		wire, err := filter.Status.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to fetch tasks"))
			return nil, err
		}
		query.Status = wire
	}
	if filter.Priority != "" {
		wire, err := filter.Priority.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to fetch tasks"))
			return nil, err
		}
		query.Priority = wire
	}

	result, err := s.cache.Query(ctx, cache.Key("tasks", query), func(ctx context.Context) (any, error) {
		return s.api.ListTasks(ctx, query)
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to fetch tasks"))
		return nil, err
	}
	page := result.(*api.TaskPage)

	tasks := make([]types.Task, 0, len(page.Items))
	for _, wt := range page.Items {
		tasks = append(tasks, taskFromWire(wt, boardID))
	}

	s.tasksMu.Lock()
	s.tasks.tasks = tasks
	s.tasks.err = ""
	s.tasksMu.Unlock()

	return append([]types.Task(nil), tasks...), nil
}

// CreateTaskInput is the caller-supplied part of a new task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         types.Status
	Priority       types.Priority
	Tags           []string
	AssignedUserID string
	DueDate        *time.Time
	StartDate      *time.Time
	EndDate        *time.Time
	AllDay         bool
	BoardID        string
}

// CreateTask creates a task on the local path and persists the grown
// collection write-through. Requires an authenticated user; the local store
// is untouched on rejection.
func (s *Store) CreateTask(ctx context.Context, in CreateTaskInput) (*types.Task, error) {
	auth := s.Auth()
	if !auth.IsAuthenticated || auth.User == nil {
		s.setTasksError(types.ErrNotAuthenticated.Error())
		return nil, types.ErrNotAuthenticated
	}

	now := time.Now().UTC()
	task := types.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		Tags:           in.Tags,
		AssignedUserID: in.AssignedUserID,
		DueDate:        in.DueDate,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AllDay:         in.AllDay,
		BoardID:        in.BoardID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if task.Status == "" {
		task.Status = types.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		s.setTasksError(displayMessage(err, "Failed to create task"))
		return nil, err
	}

	tasks, err := s.local.UpdateTasks(func(tasks []types.Task) ([]types.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to create task"))
		return nil, err
	}

	s.tasksMu.Lock()
	s.tasks.tasks = tasks
	s.tasks.err = ""
	s.tasksMu.Unlock()

	s.publish(EventTaskChange, "created", task.ID)
	return &task, nil
}

// UpdateTaskInput patches a locally-stored task. Nil fields are left as they
// are; Tags replaces the whole tag set when non-nil.
type UpdateTaskInput struct {
	ID          string
	Title       *string
	Description *string
	Status      *types.Status
	Priority    *types.Priority
	Tags        []string
	DueDate     *time.Time
	StartDate   *time.Time
	EndDate     *time.Time
	AllDay      *bool
}

// UpdateTask applies the patch to the stored task, stamps UpdatedAt, and
// persists the collection write-through.
func (s *Store) UpdateTask(ctx context.Context, in UpdateTaskInput) (*types.Task, error) {
	var updated types.Task
	tasks, err := s.local.UpdateTasks(func(tasks []types.Task) ([]types.Task, error) {
		idx := -1
		for i := range tasks {
			if tasks[i].ID == in.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, types.ErrTaskNotFound
		}

		task := tasks[idx]
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.Status != nil {
			task.Status = *in.Status
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.Tags != nil {
			task.Tags = in.Tags
		}
		if in.DueDate != nil {
			task.DueDate = in.DueDate
		}
		if in.StartDate != nil {
			task.StartDate = in.StartDate
		}
		if in.EndDate != nil {
			task.EndDate = in.EndDate
		}
		if in.AllDay != nil {
			task.AllDay = *in.AllDay
		}
		task.UpdatedAt = time.Now().UTC()

		if err := task.Validate(); err != nil {
			return nil, err
		}
		tasks[idx] = task
		updated = task
		return tasks, nil
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to update task"))
		return nil, err
	}

	s.replaceTasks(tasks)
	s.publish(EventTaskChange, "updated", updated.ID)
	task := updated
	return &task, nil
}

// DeleteTask removes a locally-stored task and persists write-through.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tasks, err := s.local.UpdateTasks(func(tasks []types.Task) ([]types.Task, error) {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to delete task"))
		return err
	}

	s.tasksMu.Lock()
	s.tasks.tasks = tasks
	s.tasks.err = ""
	s.tasksMu.Unlock()

	s.publish(EventTaskChange, "deleted", id)
	return nil
}

// MoveTask transitions a task to a new status, used by drag-and-drop style
// column moves. Only Status and UpdatedAt change; it never reorders within a
// status.
func (s *Store) MoveTask(ctx context.Context, id string, status types.Status) (*types.Task, error) {
	if !status.Valid() {
		err := fmt.Errorf("invalid status %q", status)
		s.setTasksError(err.Error())
		return nil, err
	}

	var moved types.Task
	tasks, err := s.local.UpdateTasks(func(tasks []types.Task) ([]types.Task, error) {
		idx := -1
		for i := range tasks {
			if tasks[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, types.ErrTaskNotFound
		}

		task := tasks[idx]
		task.Status = status
		task.UpdatedAt = time.Now().UTC()
		tasks[idx] = task
		moved = task
		return tasks, nil
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to move task"))
		return nil, err
	}

	s.replaceTasks(tasks)
	s.publish(EventTaskChange, "moved", moved.ID)
	task := moved
	return &task, nil
}

// RemoteTaskInput is the caller-supplied part of a backend task.
type RemoteTaskInput struct {
	Title       string
	Description string
	Status      types.Status
	Priority    types.Priority
	CategoryID  int64
	Date        *time.Time
}

// CreateRemoteTask creates a task on the backend (the server path, as opposed
// to CreateTask's local path) and invalidates cached task queries.
func (s *Store) CreateRemoteTask(ctx context.Context, in RemoteTaskInput) (*types.Task, error) {
	req := api.CreateTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
	}
	if in.Status != "" {
		wire, err := in.Status.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to create task"))
			return nil, err
		}
		req.Status = wire
	}
	if in.Priority != "" {
		wire, err := in.Priority.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to create task"))
			return nil, err
		}
		req.Priority = wire
	}

	var created types.Task
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		wt, err := s.api.CreateTask(ctx, req)
		if err != nil {
			return err
		}
		created = taskFromWire(*wt, "")
		return nil
	}, "tasks")
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to create task"))
		return nil, err
	}

	s.publish(EventTaskChange, "created", created.ID)
	return &created, nil
}

// UpdateRemoteTaskInput patches a backend task. Nil fields are left as they
// are.
type UpdateRemoteTaskInput struct {
	ID          int64
	Title       *string
	Description *string
	Status      *types.Status
	Priority    *types.Priority
	CategoryID  *int64
	Date        *time.Time
}

// UpdateRemoteTask patches a task on the backend and invalidates cached task
// queries.
func (s *Store) UpdateRemoteTask(ctx context.Context, in UpdateRemoteTaskInput) (*types.Task, error) {
	req := api.UpdateTaskRequest{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Date:        in.Date,
	}
	if in.Status != nil {
		wire, err := in.Status.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to update task"))
			return nil, err
		}
		req.Status = &wire
	}
	if in.Priority != nil {
		wire, err := in.Priority.Wire()
		if err != nil {
			s.setTasksError(displayMessage(err, "Failed to update task"))
			return nil, err
		}
		req.Priority = &wire
	}

	var updated types.Task
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		wt, err := s.api.UpdateTask(ctx, in.ID, req)
		if err != nil {
			return err
		}
		updated = taskFromWire(*wt, "")
		return nil
	}, "tasks")
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to update task"))
		return nil, err
	}

	s.publish(EventTaskChange, "updated", updated.ID)
	return &updated, nil
}

// DeleteRemoteTask removes a task on the backend and invalidates cached task
// queries.
func (s *Store) DeleteRemoteTask(ctx context.Context, id int64) error {
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.DeleteTask(ctx, id)
	}, "tasks")
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to delete task"))
		return err
	}

	s.publish(EventTaskChange, "deleted", "srv-"+strconv.FormatInt(id, 10))
	return nil
}

// ClearTasks drops the in-memory task snapshot (the persisted collection is
// untouched).
func (s *Store) ClearTasks() {
	s.tasksMu.Lock()
	s.tasks.tasks = nil
	s.tasksMu.Unlock()
}

// ClearTasksError drops the stored task display error.
func (s *Store) ClearTasksError() {
	s.tasksMu.Lock()
	s.tasks.err = ""
	s.tasksMu.Unlock()
}

func (s *Store) replaceTasks(tasks []types.Task) {
	s.tasksMu.Lock()
	s.tasks.tasks = tasks
	s.tasks.err = ""
	s.tasksMu.Unlock()
}

func (s *Store) setTasksError(msg string) {
	s.tasksMu.Lock()
	s.tasks.err = msg
	s.tasksMu.Unlock()
}

// taskFromWire maps a backend task into the client shape. Unknown or missing
// wire vocabulary falls back to todo/medium rather than failing the whole
// list. The backend's single date field stands in for both timestamps.
func taskFromWire(wt api.WireTask, boardID string) types.Task {
	status := types.StatusTodo
	if wt.Status != "" {
		if mapped, err := types.StatusFromWire(wt.Status); err == nil {
			status = mapped
		}
	}
	priority := types.PriorityMedium
	if wt.Priority != "" {
		if mapped, err := types.PriorityFromWire(wt.Priority); err == nil {
			priority = mapped
		}
	}

	stamp := time.Now().UTC()
	if wt.Date != nil {
		stamp = wt.Date.UTC()
	}

	return types.Task{
		ID:          "srv-" + strconv.FormatInt(wt.ID, 10),
		Title:       wt.Title,
		Description: wt.Description,
		Status:      status,
		Priority:    priority,
		Tags:        []string{},
		StartDate:   wt.StartDate,
		EndDate:     wt.EndDate,
		AllDay:      wt.AllDay,
		BoardID:     boardID,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
}
