package localstore

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Collection identifies which collection file a change event is for.
type Collection int

const (
	// CollectionBoards is the boards collection (boards.json).
	CollectionBoards Collection = iota
	// CollectionTasks is the tasks collection (tasks.json).
	CollectionTasks
)

// String returns a human-readable representation of the collection.
func (c Collection) String() string {
	switch c {
	case CollectionBoards:
		return "boards"
	case CollectionTasks:
		return "tasks"
	default:
		return "unknown"
	}
}

// ChangeEvent reports that a collection file was rewritten on disk.
type ChangeEvent struct {
	// Collection is the collection whose file changed.
	Collection Collection
	// Path is the absolute path of the file that changed.
	Path string
}

// Watcher observes the data directory for rewrites of the collection files.
//
// The collection files are a single shared location per entity type; another
// process holding the same data directory can overwrite them at any time
// (last write wins). The watcher makes that visible so a long-lived session
// can reload its snapshot instead of silently serving stale data.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan ChangeEvent
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	running bool
	dir     string
}

// NewWatcher creates a Watcher for the store's data directory.
// The watcher must be started with Start() before it emits events.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher: fw,
		events:  make(chan ChangeEvent, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the given data directory for collection file writes.
func (w *Watcher) Start(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch data directory %s: %w", dir, err)
	}
	w.dir = dir
	w.running = true

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops watching and cleans up resources. It blocks until the event
// processing goroutine has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel that emits collection change notifications.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

// Errors returns the channel that emits watcher errors.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ce, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ce:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// convertEvent maps an fsnotify event to a ChangeEvent. Writes, creates, and
// renames onto a collection file all count as rewrites (the store replaces
// files via rename). Everything else is ignored.
func (w *Watcher) convertEvent(event fsnotify.Event) (ChangeEvent, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return ChangeEvent{}, false
	}

	var coll Collection
	switch filepath.Base(event.Name) {
	case BoardsFile:
		coll = CollectionBoards
	case TasksFile:
		coll = CollectionTasks
	default:
		return ChangeEvent{}, false
	}

	return ChangeEvent{Collection: coll, Path: event.Name}, true
}
