package modelcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestLoad_CacheHitSkipsFetch(t *testing.T) {
	var calls atomic.Int32
	c := New(func(_ context.Context, _, _ string) ([]byte, error) {
		calls.Add(1)
		return []byte("glb"), nil
	}, nil)

	for range 3 {
		data, err := c.Load(context.Background(), "p1", "a.glb")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != "glb" {
			t.Fatalf("data = %q", data)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
}

func TestPreloadAround_NeighborhoodAndClipping(t *testing.T) {
	var mu sync.Mutex
	fetched := make(map[string]int)
	c := New(func(_ context.Context, _, file string) ([]byte, error) {
		mu.Lock()
		fetched[file]++
		mu.Unlock()
		return []byte("x"), nil
	}, nil)

	files := []string{"a.glb", "b.glb", "c.glb"}
	c.PreloadAround(context.Background(), 0, files, "p1")
	waitFor(t, func() bool { return c.InFlight() == 0 })

	mu.Lock()
	defer mu.Unlock()
	// center 0 → candidates -1 (clipped), 1, 2.
	if len(fetched) != 2 || fetched["b.glb"] != 1 || fetched["c.glb"] != 1 {
		t.Errorf("fetched = %v, want b.glb and c.glb once each", fetched)
	}
}

func TestPreloadAround_NoDuplicateInFlightFetches(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := New(func(_ context.Context, _, _ string) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("x"), nil
	}, nil)

	files := []string{"a.glb", "b.glb"}
	// Repeated calls while the first fetch is blocked must not duplicate.
	c.PreloadAround(context.Background(), 0, files, "p1")
	c.PreloadAround(context.Background(), 0, files, "p1")
	c.PreloadAround(context.Background(), 0, files, "p1")

	waitFor(t, func() bool { return calls.Load() == 1 })
	if got := c.InFlight(); got != 1 {
		t.Errorf("InFlight = %d, want 1", got)
	}
	close(release)
	waitFor(t, func() bool { return c.InFlight() == 0 })
	if n := calls.Load(); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
	if _, ok := c.Get("p1", "b.glb"); !ok {
		t.Error("preloaded entry missing from cache")
	}
}

func TestPreload_FailureIsSwallowedAndClearsInFlight(t *testing.T) {
	c := New(func(_ context.Context, _, _ string) ([]byte, error) {
		return nil, errors.New("boom")
	}, nil)

	files := []string{"a.glb", "b.glb"}
	c.PreloadAround(context.Background(), 0, files, "p1")
	waitFor(t, func() bool { return c.InFlight() == 0 })

	if c.Len() != 0 {
		t.Errorf("cache len = %d, want 0 after failed preload", c.Len())
	}
	// A later call may retry since the key is no longer in flight.
	c.PreloadAround(context.Background(), 0, files, "p1")
	waitFor(t, func() bool { return c.InFlight() == 0 })
}

func TestPreload_SkipsCachedEntries(t *testing.T) {
	var calls atomic.Int32
	c := New(func(_ context.Context, _, _ string) ([]byte, error) {
		calls.Add(1)
		return []byte("x"), nil
	}, nil)

	c.Put("p1", "b.glb", []byte("cached"))
	c.PreloadAround(context.Background(), 0, []string{"a.glb", "b.glb"}, "p1")
	waitFor(t, func() bool { return c.InFlight() == 0 })

	if n := calls.Load(); n != 0 {
		t.Errorf("fetch calls = %d, want 0 for cached entry", n)
	}
}
