package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// WireTask is the backend's task record. Status and priority carry the
// backend vocabulary (Todo/InProgress/Done, Low/Medium/High).
type WireTask struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	CategoryID  int64      `json:"categoryId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	AllDay      bool       `json:"allDay,omitempty"`
}

// TaskQuery holds the filter parameters of GET /tasks. Status and Priority
// take the backend vocabulary; zero values are omitted.
type TaskQuery struct {
	Search     string
	Status     string
	Priority   string
	CategoryID int64
	From       string
	To         string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// Values encodes the query as URL parameters. Encoding is deterministic
// (url.Values sorts keys), so equal queries produce equal cache keys.
func (q TaskQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
	}
	if q.CategoryID != 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.Page != 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit != 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
	return v
}

// PageMeta is the pagination block some list endpoints include.
type PageMeta struct {
	Total int `json:"total,omitempty"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// TaskPage is a page of backend tasks.
type TaskPage struct {
	Items []WireTask `json:"items"`
	Meta  PageMeta   `json:"meta"`
}

// ListTasks fetches tasks matching the query. The backend returns either
// {items, meta} or a bare array; both are accepted.
func (c *Client) ListTasks(ctx context.Context, query TaskQuery) (*TaskPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/tasks", query.Values(), nil, &raw); err != nil {
		return nil, err
	}
	return parseTaskPage(raw)
}

func parseTaskPage(raw json.RawMessage) (*TaskPage, error) {
	var page TaskPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Items != nil {
		return &page, nil
	}
	var items []WireTask
	if err := json.Unmarshal(raw, &items); err == nil {
		return &TaskPage{Items: items}, nil
	}
	return nil, fmt.Errorf("unexpected task list response shape")
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	CategoryID  int64      `json:"categoryId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// CreateTask creates a task on the backend.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*WireTask, error) {
	var task WireTask
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Nil fields are omitted
// so the backend only touches what the caller set.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CategoryID  *int64     `json:"categoryId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// UpdateTask patches a task on the backend.
func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*WireTask, error) {
	var task WireTask
	path := fmt.Sprintf("/tasks/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task on the backend.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil, nil)
}
