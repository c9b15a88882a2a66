package state

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/types"
)

func TestInvitationsListedAndInvalidatedOnSend(t *testing.T) {
	fetches := 0
	invitations := []map[string]any{
		{
			"id": 1, "email": "x@b.com", "token": "tok-1", "status": "PENDING",
			"createdAt": time.Now().UTC(), "expiresAt": time.Now().Add(48 * time.Hour).UTC(),
		},
	}
	mux := authMux(t)
	mux.HandleFunc("GET /invitations", func(w http.ResponseWriter, r *http.Request) {
		fetches++
		writeJSON(t, w, map[string]any{"data": invitations})
	})
	mux.HandleFunc("POST /invitations", func(w http.ResponseWriter, r *http.Request) {
		invitations = append(invitations, map[string]any{
			"id": 2, "email": "y@b.com", "token": "tok-2", "status": "PENDING",
			"createdAt": time.Now().UTC(), "expiresAt": time.Now().Add(48 * time.Hour).UTC(),
		})
		w.WriteHeader(http.StatusCreated)
	})
	s := newTestStore(t, mux)
	ctx := context.Background()

	got, err := s.Invitations(ctx)
	if err != nil {
		t.Fatalf("Invitations failed: %v", err)
	}
	if len(got) != 1 || got[0].Status != types.InvitationPending {
		t.Fatalf("invitations = %+v, want one pending", got)
	}

	if _, err := s.Invitations(ctx); err != nil {
		t.Fatalf("Invitations failed: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("backend fetches = %d, want cached second read", fetches)
	}

	if err := s.SendInvitation(ctx, "y@b.com"); err != nil {
		t.Fatalf("SendInvitation failed: %v", err)
	}

	got, err = s.Invitations(ctx)
	if err != nil {
		t.Fatalf("Invitations failed: %v", err)
	}
	if fetches != 2 {
		t.Errorf("backend fetches = %d, send must invalidate the list", fetches)
	}
	if len(got) != 2 {
		t.Errorf("invitations after send = %+v, want 2", got)
	}
}

func TestAcceptInvitationSignsIn(t *testing.T) {
	mux := authMux(t)
	mux.HandleFunc("POST /invitations/accept", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok"})
		w.WriteHeader(http.StatusOK)
	})
	s := newTestStore(t, mux)

	user, err := s.AcceptInvitation(context.Background(), AcceptInvitationInput{
		Token:    "tok-1",
		Name:     "New Member",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	if user.ID != "7" {
		t.Errorf("user ID = %q, want 7", user.ID)
	}

	if auth := s.Auth(); !auth.IsAuthenticated {
		t.Error("accepting an invitation must establish a session")
	}
}
