package types

import (
	"testing"
	"time"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusInProgress, StatusDone} {
		wire, err := s.Wire()
		if err != nil {
			t.Fatalf("Wire(%q) failed: %v", s, err)
		}
		back, err := StatusFromWire(wire)
		if err != nil {
			t.Fatalf("StatusFromWire(%q) failed: %v", wire, err)
		}
		if back != s {
			t.Errorf("round trip %q -> %q -> %q", s, wire, back)
		}
	}
}

func TestPriorityRoundTrip(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		wire, err := p.Wire()
		if err != nil {
			t.Fatalf("Wire(%q) failed: %v", p, err)
		}
		back, err := PriorityFromWire(wire)
		if err != nil {
			t.Fatalf("PriorityFromWire(%q) failed: %v", wire, err)
		}
		if back != p {
			t.Errorf("round trip %q -> %q -> %q", p, wire, back)
		}
	}
}

func TestWireRejectsUnknownValues(t *testing.T) {
	if _, err := Status("open").Wire(); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := StatusFromWire("todo"); err == nil {
		t.Error("expected error for client-vocabulary status on the wire path")
	}
	if _, err := Priority("urgent").Wire(); err == nil {
		t.Error("expected error for unknown priority")
	}
	if _, err := PriorityFromWire("low"); err == nil {
		t.Error("expected error for client-vocabulary priority on the wire path")
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ann", "A"},
		{"Ann Smith", "AS"},
		{"ann smith", "AS"},
		{"Ann Barbara Smith", "AB"},
		{"", "U"},
		{"   ", "U"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBoardValidate(t *testing.T) {
	now := time.Now()
	board := Board{ID: "b1", Title: "Work", CreatedAt: now, UpdatedAt: now}
	if err := board.Validate(); err != nil {
		t.Errorf("valid board rejected: %v", err)
	}

	missing := board
	missing.Title = ""
	if err := missing.Validate(); err == nil {
		t.Error("expected error for board without title")
	}
}

func TestTaskValidate(t *testing.T) {
	task := Task{
		ID:       "t1",
		Title:    "Write report",
		Status:   StatusTodo,
		Priority: PriorityHigh,
		BoardID:  "b1",
	}
	if err := task.Validate(); err != nil {
		t.Errorf("valid task rejected: %v", err)
	}

	bad := task
	bad.Status = "blocked"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown status")
	}
}
