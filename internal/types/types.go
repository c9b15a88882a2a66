// Package types defines the domain entities shared across the taskdeck client:
// users, boards, tasks, categories, and team invitations.
//
// Tasks and categories cross the backend boundary, where status and priority
// use a different vocabulary (Todo/InProgress/Done, Low/Medium/High). The
// mapping functions in this package are the single place that translation
// happens; both directions must round-trip without loss.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Status is the client-side task status vocabulary.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Priority is the client-side task/category priority vocabulary.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// InvitationStatus is the lifecycle state of a team invitation.
// The backend owns this vocabulary; it is carried through unchanged.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// Sentinel errors shared by the state slices and the local store.
var (
	// ErrNotAuthenticated is returned by operations that require a signed-in
	// user (board/task creation on the local path).
	ErrNotAuthenticated = errors.New("User not authenticated")

	// ErrBoardNotFound is returned when a board id lookup misses.
	ErrBoardNotFound = errors.New("board not found")

	// ErrTaskNotFound is returned when a task id lookup misses.
	ErrTaskNotFound = errors.New("task not found")
)

// User is the authenticated identity held by the auth slice.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Initials string `json:"initials"`
}

// Board is a task board. Boards live in the local store; the board slice is a
// cached projection of the serialized collection.
type Board struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Task is a unit of work on a board.
//
// Tasks fetched from the backend are mapped into this shape (vocabulary
// translation, timestamp normalization). Tasks created locally are persisted
// to the local store only.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	Tags           []string   `json:"tags,omitempty"`
	AssignedUserID string     `json:"assignedUserId,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	AllDay         bool       `json:"allDay,omitempty"`
	BoardID        string     `json:"boardId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Category is a server-owned task category. It is never persisted locally;
// all reads and writes go through the server cache layer.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Invitation is a server-owned team invitation.
type Invitation struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	Token     string           `json:"token"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Validate checks that the board has the fields every persisted board needs.
func (b *Board) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("id is required")
	}
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.CreatedAt.IsZero() {
		return fmt.Errorf("createdAt is required")
	}
	if b.UpdatedAt.IsZero() {
		return fmt.Errorf("updatedAt is required")
	}
	return nil
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if t.BoardID == "" {
		return fmt.Errorf("boardId is required")
	}
	return nil
}

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Valid reports whether p is one of the known priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Wire converts a client status to the backend vocabulary.
func (s Status) Wire() (string, error) {
	switch s {
	case StatusTodo:
		return "Todo", nil
	case StatusInProgress:
		return "InProgress", nil
	case StatusDone:
		return "Done", nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// StatusFromWire converts a backend status to the client vocabulary.
func StatusFromWire(s string) (Status, error) {
	switch s {
	case "Todo":
		return StatusTodo, nil
	case "InProgress":
		return StatusInProgress, nil
	case "Done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown wire status %q", s)
}

// Wire converts a client priority to the backend vocabulary.
func (p Priority) Wire() (string, error) {
	switch p {
	case PriorityLow:
		return "Low", nil
	case PriorityMedium:
		return "Medium", nil
	case PriorityHigh:
		return "High", nil
	}
	return "", fmt.Errorf("unknown priority %q", p)
}

// PriorityFromWire converts a backend priority to the client vocabulary.
func PriorityFromWire(p string) (Priority, error) {
	switch p {
	case "Low":
		return PriorityLow, nil
	case "Medium":
		return PriorityMedium, nil
	case "High":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown wire priority %q", p)
}

// Initials derives display initials from a user name: the first letter of the
// first two words, uppercased. Falls back to "U" for empty names.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "U"
	}
	var b strings.Builder
	for i, f := range fields {
		if i >= 2 {
			break
		}
		for _, r := range f {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}
