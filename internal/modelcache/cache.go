// Package modelcache caches fetched model payloads for the session and
// preloads the navigation neighborhood of the current model.
package modelcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// FetchFunc retrieves the raw bytes of one model file of a project.
type FetchFunc func(ctx context.Context, project, file string) ([]byte, error)

// Cache is a content cache keyed by "<project>/<file>" with unbounded
// retention for the session. The working set is one project's models at a
// time and projects are small, so no eviction policy is needed.
type Cache struct {
	fetch  FetchFunc
	logger *slog.Logger

	mu       sync.Mutex
	entries  map[string][]byte
	inFlight map[string]struct{}
}

// New creates a Cache that fills itself through fetch.
func New(fetch FetchFunc, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetch:    fetch,
		logger:   logger,
		entries:  make(map[string][]byte),
		inFlight: make(map[string]struct{}),
	}
}

func key(project, file string) string {
	return fmt.Sprintf("%s/%s", project, file)
}

// Get returns the cached payload for a project file, if present.
func (c *Cache) Get(project, file string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key(project, file)]
	return data, ok
}

// Put inserts a payload, overwriting any previous entry.
func (c *Cache) Put(project, file string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(project, file)] = data
}

// Load returns the cached payload or fetches and caches it. Used by the
// sequential project load path, where a preceding preload may already have
// populated the entry.
func (c *Cache) Load(ctx context.Context, project, file string) ([]byte, error) {
	if data, ok := c.Get(project, file); ok {
		return data, nil
	}
	data, err := c.fetch(ctx, project, file)
	if err != nil {
		return nil, err
	}
	c.Put(project, file, data)
	return data, nil
}

// PreloadAround begins background fetches for the fixed neighborhood of
// center (one index before, one after, two after), clipped to the valid
// range of files. Keys already cached or in flight are skipped, so calling
// it repeatedly never issues duplicate concurrent fetches. Failures are
// swallowed: preload is purely an optimization.
func (c *Cache) PreloadAround(ctx context.Context, center int, files []string, project string) {
	for _, i := range []int{center - 1, center + 1, center + 2} {
		if i < 0 || i >= len(files) {
			continue
		}
		c.preload(ctx, project, files[i])
	}
}

func (c *Cache) preload(ctx context.Context, project, file string) {
	k := key(project, file)

	c.mu.Lock()
	if _, cached := c.entries[k]; cached {
		c.mu.Unlock()
		return
	}
	if _, busy := c.inFlight[k]; busy {
		c.mu.Unlock()
		return
	}
	c.inFlight[k] = struct{}{}
	c.mu.Unlock()

	go func() {
		data, err := c.fetch(ctx, project, file)

		c.mu.Lock()
		delete(c.inFlight, k)
		if err == nil {
			c.entries[k] = data
		}
		c.mu.Unlock()

		if err != nil {
			c.logger.Debug("preload failed",
				slog.String("key", k), slog.String("error", err.Error()))
		}
	}()
}

// InFlight returns the number of outstanding preload fetches.
func (c *Cache) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inFlight)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
