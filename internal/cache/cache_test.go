package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(log.New(os.Stderr, "[test] ", 0))
}

func TestQueryCachesResult(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var fetches int32
	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&fetches, 1)
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Query(ctx, "categories", fetch)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if got != "result" {
			t.Errorf("got %v, want result", got)
		}
	}
	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("expected 1 fetch, got %d", n)
	}
}

func TestQueryDeduplicatesConcurrentFetches(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var fetches int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return 42, nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Query(ctx, "tasks", fetch)
			if err != nil {
				t.Errorf("Query failed: %v", err)
			}
			results[i] = got
		}(i)
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("expected a single in-flight fetch, got %d", got)
	}
	for i, r := range results {
		if r != 42 {
			t.Errorf("result %d = %v, want 42", i, r)
		}
	}
}

func TestInvalidateTriggersRefetch(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	key := Key("categories", map[string]string{"search": "work"})
	if got, _ := c.Query(ctx, key, fetch); got != "v1" {
		t.Fatalf("first read = %v, want v1", got)
	}

	// A successful mutation invalidates every categories query.
	err := c.Mutate(ctx, func(ctx context.Context) error { return nil }, "categories")
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}

	got, err := c.Query(ctx, key, fetch)
	if err != nil {
		t.Fatalf("Query after invalidation failed: %v", err)
	}
	if got != "v2" {
		t.Errorf("read after invalidation = %v, want refetched v2", got)
	}
}

func TestInvalidateMatchesPrefixOnly(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	taskCalls, catCalls := 0, 0
	_, _ = c.Query(ctx, Key("tasks", nil), func(ctx context.Context) (any, error) {
		taskCalls++
		return nil, nil
	})
	_, _ = c.Query(ctx, Key("categories", nil), func(ctx context.Context) (any, error) {
		catCalls++
		return nil, nil
	})

	c.Invalidate("tasks")

	_, _ = c.Query(ctx, Key("tasks", nil), func(ctx context.Context) (any, error) {
		taskCalls++
		return nil, nil
	})
	_, _ = c.Query(ctx, Key("categories", nil), func(ctx context.Context) (any, error) {
		catCalls++
		return nil, nil
	})

	if taskCalls != 2 {
		t.Errorf("tasks fetches = %d, want 2 (invalidated)", taskCalls)
	}
	if catCalls != 1 {
		t.Errorf("categories fetches = %d, want 1 (untouched)", catCalls)
	}
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "cached", nil
	}
	if _, err := c.Query(ctx, "categories", fetch); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	err := c.Mutate(ctx, func(ctx context.Context) error {
		return fmt.Errorf("backend rejected")
	}, "categories")
	if err == nil {
		t.Fatal("expected mutation error")
	}

	if _, err := c.Query(ctx, "categories", fetch); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetches = %d, want 1 (cache untouched after failed mutation)", calls)
	}
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("network down")
		}
		return "ok", nil
	}

	if _, err := c.Query(ctx, "tasks", fetch); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	got, err := c.Query(ctx, "tasks", fetch)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %v, want ok", got)
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	type params struct {
		Search string `json:"search"`
		Page   int    `json:"page"`
	}
	a := Key("tasks", params{Search: "x", Page: 2})
	b := Key("tasks", params{Search: "x", Page: 2})
	if a != b {
		t.Errorf("equal params produced different keys: %q vs %q", a, b)
	}
	if a == Key("tasks", params{Search: "y", Page: 2}) {
		t.Error("different params produced the same key")
	}
}

func TestClearDropsEveryEntry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	fetch := func(ctx context.Context) (any, error) { return "ok", nil }
	for _, key := range []string{"tasks", "categories", "invitations"} {
		if _, err := c.Query(ctx, key, fetch); err != nil {
			t.Fatalf("Query(%s) failed: %v", key, err)
		}
	}
	if n := c.Len(); n != 3 {
		t.Fatalf("Len() = %d, want 3", n)
	}

	c.Clear()
	if n := c.Len(); n != 0 {
		t.Errorf("Len() after Clear = %d, want 0", n)
	}

	var fetches int32
	counting := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&fetches, 1)
		return "fresh", nil
	}
	if _, err := c.Query(ctx, "tasks", counting); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if atomic.LoadInt32(&fetches) != 1 {
		t.Error("expected a fresh fetch after Clear")
	}
}
