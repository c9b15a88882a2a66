package localstore

import (
	"os"

	"github.com/taskdeck/taskdeck/internal/types"
)

// LoadTasks reads the full tasks collection. A missing or unreadable file
// yields an empty collection; tasks are never seeded.
func (s *Store) LoadTasks() ([]types.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	return s.loadTasksLocked()
}

func (s *Store) loadTasksLocked() ([]types.Task, error) {
	var tasks []types.Task
	err := s.load(s.TasksPath(), &tasks)
	if err == nil {
		if tasks == nil {
			tasks = []types.Task{}
		}
		return tasks, nil
	}
	if !os.IsNotExist(err) {
		s.logger.Printf("Warning: unreadable tasks collection, falling back to empty: %v", err)
	}
	return []types.Task{}, nil
}

// SaveTasks serializes the full tasks collection, overwriting the file.
func (s *Store) SaveTasks(tasks []types.Task) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()
	return s.saveTasksLocked(tasks)
}

func (s *Store) saveTasksLocked(tasks []types.Task) error {
	if tasks == nil {
		tasks = []types.Task{}
	}
	return s.save(s.TasksPath(), tasks)
}

// UpdateTasks runs a read-modify-write cycle on the tasks collection under
// the collection lock. fn receives the current collection and returns the
// collection to persist. If fn fails, nothing is written.
func (s *Store) UpdateTasks(fn func(tasks []types.Task) ([]types.Task, error)) ([]types.Task, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	tasks, err := s.loadTasksLocked()
	if err != nil {
		return nil, err
	}
	updated, err := fn(tasks)
	if err != nil {
		return nil, err
	}
	if err := s.saveTasksLocked(updated); err != nil {
		return nil, err
	}
	return updated, nil
}
