package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// WireInvitation is the backend's team invitation record.
type WireInvitation struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Status    string    `json:"status"` // PENDING, ACCEPTED, EXPIRED
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ListInvitations fetches all invitations. The backend wraps the list in a
// data envelope.
func (c *Client) ListInvitations(ctx context.Context) ([]WireInvitation, error) {
	var envelope struct {
		Data []WireInvitation `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/invitations", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// SendInvitation invites the given email address to the team.
func (c *Client) SendInvitation(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/invitations", nil, body, nil)
}

// ValidateInvitation checks an invitation token and returns the matching
// invitation record.
func (c *Client) ValidateInvitation(ctx context.Context, token string) (*WireInvitation, error) {
	var envelope struct {
		Data WireInvitation `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/invitations/"+url.PathEscape(token), nil, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// AcceptInvitationRequest is the body of POST /invitations/accept.
type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// AcceptInvitation redeems an invitation token, creating the invited account
// and establishing a session.
func (c *Client) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) error {
	return c.do(ctx, http.MethodPost, "/invitations/accept", nil, req, nil)
}
