package state

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/types"
)

// CategoryFilter narrows a category list query.
type CategoryFilter struct {
	Search    string
	Priority  types.Priority
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Categories fetches categories through the cache layer. Categories are
// server-owned: they never touch the local store, and mutations invalidate
// every cached category query.
func (s *Store) Categories(ctx context.Context, filter CategoryFilter) ([]types.Category, error) {
	query := api.CategoryQuery{
		Search:    filter.Search,
		Page:      filter.Page,
		Limit:     filter.Limit,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	if filter.Priority != "" {
		wire, err := filter.Priority.Wire()
		if err != nil {
			return nil, err
		}
		query.Priority = wire
	}

	result, err := s.cache.Query(ctx, cache.Key("categories", query), func(ctx context.Context) (any, error) {
		return s.api.ListCategories(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	page := result.(*api.CategoryPage)

	categories := make([]types.Category, 0, len(page.Items))
	for _, wc := range page.Items {
		categories = append(categories, categoryFromWire(wc))
	}
	return categories, nil
}

// CreateCategoryInput is the caller-supplied part of a new category.
type CreateCategoryInput struct {
	Name        string
	Description string
	Priority    types.Priority
}

// CreateCategory creates a category on the backend and invalidates cached
// category queries so the next read refetches.
func (s *Store) CreateCategory(ctx context.Context, in CreateCategoryInput) (*types.Category, error) {
	req := api.CreateCategoryRequest{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.Priority != "" {
		wire, err := in.Priority.Wire()
		if err != nil {
			return nil, err
		}
		req.Priority = wire
	}

	var created types.Category
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		wc, err := s.api.CreateCategory(ctx, req)
		if err != nil {
			return err
		}
		created = categoryFromWire(*wc)
		return nil
	}, "categories")
	if err != nil {
		return nil, err
	}

	s.publish(EventCategoryChange, "created", itoa64(created.ID))
	return &created, nil
}

// UpdateCategoryInput patches a category. Nil fields are left as they are.
type UpdateCategoryInput struct {
	ID          int64
	Name        *string
	Description *string
	Priority    *types.Priority
}

// UpdateCategory patches a category on the backend and invalidates cached
// category queries.
func (s *Store) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*types.Category, error) {
	req := api.UpdateCategoryRequest{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.Priority != nil {
		wire, err := in.Priority.Wire()
		if err != nil {
			return nil, err
		}
		req.Priority = &wire
	}

	var updated types.Category
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		wc, err := s.api.UpdateCategory(ctx, in.ID, req)
		if err != nil {
			return err
		}
		updated = categoryFromWire(*wc)
		return nil
	}, "categories")
	if err != nil {
		return nil, err
	}

	s.publish(EventCategoryChange, "updated", itoa64(updated.ID))
	return &updated, nil
}

// DeleteCategory removes a category on the backend and invalidates cached
// category queries.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.DeleteCategory(ctx, id)
	}, "categories")
	if err != nil {
		return err
	}

	s.publish(EventCategoryChange, "deleted", itoa64(id))
	return nil
}

// categoryFromWire maps a backend category into the domain shape. An unknown
// priority falls back to medium.
func categoryFromWire(wc api.WireCategory) types.Category {
	priority := types.PriorityMedium
	if wc.Priority != "" {
		if mapped, err := types.PriorityFromWire(wc.Priority); err == nil {
			priority = mapped
		}
	}
	cat := types.Category{
		ID:          wc.ID,
		Name:        wc.Name,
		Description: wc.Description,
		Priority:    priority,
	}
	if wc.CreatedAt != nil {
		cat.CreatedAt = *wc.CreatedAt
	} else {
		cat.CreatedAt = time.Now().UTC()
	}
	return cat
}
