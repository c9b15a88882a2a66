package state

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/localstore"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", 0)
}

// newTestStore wires a Store against the given fake backend and a local store
// in a fresh temp directory.
func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create api client: %v", err)
	}
	local, err := localstore.New(t.TempDir(), localstore.Options{Logger: testLogger()})
	if err != nil {
		t.Fatalf("failed to create local store: %v", err)
	}
	store, err := New(Config{API: client, Local: local, Logger: testLogger()})
	if err != nil {
		t.Fatalf("failed to create state store: %v", err)
	}
	return store
}

// authMux is a fake backend that accepts any login and reports user 7.
func authMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("access_token"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, map[string]any{
			"data": map[string]any{"id": 7, "name": "Ann", "email": "a@b.com"},
		})
	})
	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

// loginTestUser signs the store in as user 7 via the fake backend.
func loginTestUser(t *testing.T, s *Store) {
	t.Helper()
	if _, err := s.Login(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}
