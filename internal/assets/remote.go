package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/starford/raidho/internal/apperr"
)

// Remote implements Provider over HTTP: per-project, per-file URLs are
// built by simple path concatenation onto a base URL. Whether the origin
// is a CDN, an object store with signed URLs, or a plain static server is
// opaque here.
type Remote struct {
	base   string
	client *http.Client
}

// NewRemote creates a Remote provider for the given base URL.
func NewRemote(base string, client *http.Client) *Remote {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Remote{base: base, client: client}
}

// URL returns the fetch URL for one project resource.
func (r *Remote) URL(base, name string) string {
	return fmt.Sprintf("%s/%s/%s", r.base, url.PathEscape(base), url.PathEscape(name))
}

func (r *Remote) get(ctx context.Context, base, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL(base, name), nil)
	if err != nil {
		return nil, fmt.Errorf("assets: build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: fetch %s/%s: %w", base, name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s/%s", apperr.ErrNotFound, base, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("assets: fetch %s/%s: status %d", base, name, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("assets: read body %s/%s: %w", base, name, err)
	}
	return data, nil
}

// Manifest fetches and validates <base URL>/<base>/manifest.json.
func (r *Remote) Manifest(ctx context.Context, base string) ([]string, error) {
	data, err := r.get(ctx, base, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrManifest, err)
	}
	return parseManifest(data)
}

// Schedule fetches <base URL>/<base>/schedule.json.
func (r *Remote) Schedule(ctx context.Context, base string) ([]byte, error) {
	data, err := r.get(ctx, base, ScheduleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSchedule, err)
	}
	return data, nil
}

// Model fetches one model payload.
func (r *Remote) Model(ctx context.Context, base, file string) ([]byte, error) {
	return r.get(ctx, base, file)
}
