// Package api wraps the task/board REST backend behind a typed HTTP client.
//
// All requests carry the session cookie jar, a fixed 15-second deadline, and
// JSON bodies. Responses use the backend vocabulary (Todo/InProgress/Done,
// Low/Medium/High); translation into the client vocabulary happens in the
// state layer, not here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

// requestTimeout is the overall deadline applied to every outbound call.
// The cache layer adds no retry or timeout policy of its own.
const requestTimeout = 15 * time.Second

// Client is an HTTP client for the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New creates a Client for the given base URL.
//
// The client owns an in-memory cookie jar for the session credentials the
// auth endpoints set. Use LoadCookies/SaveCookies to carry a session across
// process runs.
func New(baseURL string, logger *log.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[api] ", log.LstdFlags)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the backend base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is a failed backend request. Message is display-ready: the backend's
// own message when one was supplied (first entry if it sent several), a
// generic fallback otherwise.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsAuthRequired reports whether err is a backend rejection that calls for
// the user to log in or register (401/403-class).
func IsAuthRequired(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// do issues a JSON request and decodes the response body into out (when out
// is non-nil and the body is non-empty). Error responses are converted into
// *Error with the backend's message extracted.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(data, resp.StatusCode),
		}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// extractMessage pulls the user-facing message out of a backend error payload.
// The backend sends {"message": "..."} or {"message": ["...", ...]}; the first
// entry wins when several are supplied.
func extractMessage(data []byte, status int) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && len(payload.Message) > 0 {
		var single string
		if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
			return single
		}
		var many []string
		if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 && many[0] != "" {
			return many[0]
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
