// Package state holds the authoritative in-memory snapshot the frontends
// render from, partitioned into three independent slices: auth, boards, and
// tasks.
//
// The store is an explicit object wired with its collaborators at startup —
// no package-level state. Each slice guards its snapshot with its own mutex;
// mutations replace the snapshot atomically from the caller's perspective.
// Slice operations catch their own failures and keep a display-ready error
// string in the slice, and also return the error so callers that need to
// branch on failure (keeping a dialog open, say) still can.
//
// Boards and locally-created tasks go through the write-through local store.
// Server-owned data (task list queries, categories, invitations) goes through
// the cache layer, which invalidates by entity-type prefix after mutations.
package state

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/types"
)

// EventType classifies a state change event.
type EventType string

const (
	// EventAuthChange signals a login, logout, or session restore.
	EventAuthChange EventType = "auth_change"
	// EventBoardChange signals a board was created, updated, or deleted.
	EventBoardChange EventType = "board_update"
	// EventTaskChange signals a task was created, updated, moved, or deleted.
	EventTaskChange EventType = "task_update"
	// EventCategoryChange signals a server-side category mutation succeeded.
	EventCategoryChange EventType = "category_update"
	// EventInvitationChange signals an invitation was sent or accepted.
	EventInvitationChange EventType = "invitation_update"
)

// Event describes a single state change.
type Event struct {
	Type      EventType `json:"type"`
	Action    string    `json:"action"` // created, updated, deleted, moved, ...
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSink receives state change events. Publish must not block; sinks that
// fan out (the dashboard) buffer internally.
type EventSink interface {
	Publish(Event)
}

// Config wires a Store with its collaborators.
type Config struct {
	// API is the backend client. Required.
	API *api.Client
	// Cache is the server cache layer. Defaults to a fresh cache.
	Cache *cache.Cache
	// Local is the persistent local store. Required.
	Local *localstore.Store
	// Logger for store activity. Defaults to a stderr logger.
	Logger *log.Logger
	// Sink receives state change events. Optional.
	Sink EventSink
}

// Store is the domain state store.
type Store struct {
	api    *api.Client
	cache  *cache.Cache
	local  *localstore.Store
	logger *log.Logger
	sink   EventSink

	authMu sync.Mutex
	auth   authState

	boardsMu sync.Mutex
	boards   boardsState

	tasksMu sync.Mutex
	tasks   tasksState
}

// New creates a Store from the given configuration.
func New(cfg Config) (*Store, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if cfg.Local == nil {
		return nil, fmt.Errorf("local store is required")
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[state] ", log.LstdFlags)
	}
	return &Store{
		api:    cfg.API,
		cache:  cfg.Cache,
		local:  cfg.Local,
		logger: cfg.Logger,
		sink:   cfg.Sink,
	}, nil
}

// Cache returns the server cache layer the store queries through.
func (s *Store) Cache() *cache.Cache {
	return s.cache
}

// publish forwards a state change event to the sink, if one is wired.
func (s *Store) publish(typ EventType, action, id string) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(Event{
		Type:      typ,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	})
}

// displayMessage converts an operation failure into the string a slice keeps
// for the UI: the backend's own message when there is one, the generic
// fallback for network and unknown failures.
func displayMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, types.ErrNotAuthenticated) ||
		errors.Is(err, types.ErrBoardNotFound) ||
		errors.Is(err, types.ErrTaskNotFound) {
		return err.Error()
	}
	return fallback
}
