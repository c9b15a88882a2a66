package state

import (
	"context"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/types"
)

// PushLocalTasks replays locally-created tasks to the backend, treating the
// local collection as an offline queue of pending creates. Each task that the
// backend accepts is removed from the local store; the first failure stops
// the push, leaving the remaining tasks queued for a later attempt.
//
// The backend is authoritative afterwards: pushed tasks reappear in
// FetchTasksByBoard results (cached task queries are invalidated per create).
//
// Returns how many tasks were pushed.
func (s *Store) PushLocalTasks(ctx context.Context) (int, error) {
	queued, err := s.local.LoadTasks()
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to push tasks"))
		return 0, err
	}

	pushed := 0
	for _, task := range queued {
		in := RemoteTaskInput{
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			Date:        task.DueDate,
		}
		if _, err := s.CreateRemoteTask(ctx, in); err != nil {
			if pushed > 0 {
				// Drop what made it over before reporting the failure, or
				// the next push would create duplicates.
				if dropErr := s.dropLocalTasks(queued[:pushed]); dropErr != nil {
					return pushed, dropErr
				}
			}
			return pushed, fmt.Errorf("failed to push task %s: %w", task.ID, err)
		}
		pushed++
	}

	if pushed > 0 {
		if err := s.dropLocalTasks(queued[:pushed]); err != nil {
			return pushed, err
		}
	}
	return pushed, nil
}

// dropLocalTasks removes the given tasks from the local collection.
func (s *Store) dropLocalTasks(done []types.Task) error {
	ids := make(map[string]bool, len(done))
	for _, t := range done {
		ids[t.ID] = true
	}

	tasks, err := s.local.UpdateTasks(func(tasks []types.Task) ([]types.Task, error) {
		kept := tasks[:0]
		for _, t := range tasks {
			if !ids[t.ID] {
				kept = append(kept, t)
			}
		}
		return kept, nil
	})
	if err != nil {
		s.setTasksError(displayMessage(err, "Failed to push tasks"))
		return err
	}

	s.replaceTasks(tasks)
	return nil
}
