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

// WireCategory is the backend's category record. Priority carries the
// backend vocabulary.
type WireCategory struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CategoryQuery holds the filter parameters of GET /categories.
type CategoryQuery struct {
	Search    string
	Priority  string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Values encodes the query as URL parameters.
func (q CategoryQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Priority != "" {
		v.Set("priority", q.Priority)
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

// CategoryPage is a page of backend categories.
type CategoryPage struct {
	Items []WireCategory `json:"items"`
	Meta  PageMeta       `json:"meta"`
}

// ListCategories fetches categories matching the query. Accepts either
// {items, meta} or a bare array, like ListTasks.
func (c *Client) ListCategories(ctx context.Context, query CategoryQuery) (*CategoryPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/categories", query.Values(), nil, &raw); err != nil {
		return nil, err
	}
	var page CategoryPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Items != nil {
		return &page, nil
	}
	var items []WireCategory
	if err := json.Unmarshal(raw, &items); err == nil {
		return &CategoryPage{Items: items}, nil
	}
	return nil, fmt.Errorf("unexpected category list response shape")
}

// GetCategory fetches a single category by id.
func (c *Client) GetCategory(ctx context.Context, id int64) (*WireCategory, error) {
	var cat WireCategory
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// CreateCategory creates a category on the backend.
func (c *Client) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*WireCategory, error) {
	var cat WireCategory
	if err := c.do(ctx, http.MethodPost, "/categories", nil, req, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategoryRequest is the body of PATCH /categories/:id.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// UpdateCategory patches a category on the backend.
func (c *Client) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*WireCategory, error) {
	var cat WireCategory
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/categories/%d", id), nil, req, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category on the backend.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil, nil)
}
