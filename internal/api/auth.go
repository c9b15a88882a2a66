package api

import (
	"context"
	"net/http"
)

// WireUser is the backend's user record as returned by GET /auth/me.
type WireUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Login authenticates with email and password. On success the backend sets
// the session cookies on the client's jar; no user record is returned here —
// follow up with Me.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/login", nil, body, nil)
}

// Register creates an account and establishes a session. Only the fields the
// backend accepts are sent.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register", nil, body, nil)
}

// Refresh silently renews the session cookie.
func (c *Client) Refresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/refresh", nil, nil, nil)
}

// Me fetches the current user record. The backend wraps it in a data
// envelope.
func (c *Client) Me(ctx context.Context) (*WireUser, error) {
	var envelope struct {
		Data WireUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
