package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/taskdeck/taskdeck/internal/types"
)

// categoryMux is a fake backend with a mutable category list.
func categoryMux(t *testing.T) (*http.ServeMux, *int) {
	t.Helper()

	fetches := 0
	names := []string{"Errands"}
	mux := authMux(t)
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		items := make([]map[string]any, 0, len(names))
		for i, n := range names {
			items = append(items, map[string]any{"id": i + 1, "name": n, "priority": "Low"})
		}
		writeJSON(t, w, map[string]any{"items": items})
	})
	mux.HandleFunc("POST /categories", func(w http.ResponseWriter, r *http.Request) {
		names = append(names, "Chores")
		writeJSON(t, w, map[string]any{"id": len(names), "name": "Chores", "priority": "High"})
	})
	return mux, &fetches
}

func TestCategoriesCachedUntilMutation(t *testing.T) {
	mux, fetches := categoryMux(t)
	s := newTestStore(t, mux)
	ctx := context.Background()

	cats, err := s.Categories(ctx, CategoryFilter{})
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Errands" {
		t.Fatalf("categories = %+v, want [Errands]", cats)
	}
	if cats[0].Priority != types.PriorityLow {
		t.Errorf("priority = %q, wire vocabulary not mapped", cats[0].Priority)
	}

	// Second read is served from cache.
	if _, err := s.Categories(ctx, CategoryFilter{}); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if *fetches != 1 {
		t.Fatalf("backend fetches = %d, want 1 before mutation", *fetches)
	}

	created, err := s.CreateCategory(ctx, CreateCategoryInput{Name: "Chores", Priority: types.PriorityHigh})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if created.Priority != types.PriorityHigh {
		t.Errorf("created priority = %q, want high", created.Priority)
	}

	// The mutation invalidated the list; the next read refetches and sees
	// the new category.
	cats, err = s.Categories(ctx, CategoryFilter{})
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if *fetches != 2 {
		t.Errorf("backend fetches = %d, want refetch after mutation", *fetches)
	}
	if len(cats) != 2 {
		t.Errorf("categories after create = %+v, want 2 entries", cats)
	}
}

func TestFailedCategoryMutationKeepsCache(t *testing.T) {
	fetches := 0
	mux := authMux(t)
	mux.HandleFunc("GET /categories", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		writeJSON(t, w, map[string]any{"items": []map[string]any{{"id": 1, "name": "Errands"}}})
	})
	mux.HandleFunc("POST /categories", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": ["name too short", "other problem"]}`))
	})
	s := newTestStore(t, mux)
	ctx := context.Background()

	if _, err := s.Categories(ctx, CategoryFilter{}); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}

	_, err := s.CreateCategory(ctx, CreateCategoryInput{Name: "x"})
	if err == nil {
		t.Fatal("expected create to fail")
	}

	if _, err := s.Categories(ctx, CategoryFilter{}); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if fetches != 1 {
		t.Errorf("backend fetches = %d, failed mutation must not invalidate", fetches)
	}
}
