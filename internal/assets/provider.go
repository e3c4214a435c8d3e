// Package assets retrieves per-project viewer resources (the model-file
// manifest, the schedule document, and the model payloads) from a
// configurable base location. The core does not care whether that location
// is a local static directory or a remote object store; both variants sit
// behind the same Provider interface.
package assets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/starford/raidho/internal/apperr"
)

// Names of the two flat per-project resources.
const (
	ManifestName = "manifest.json"
	ScheduleName = "schedule.json"
)

// Provider is the interface for per-project asset retrieval. base is the
// project's storage path segment.
type Provider interface {
	// Manifest returns the ordered list of model filenames for a project.
	// It fails with apperr.ErrManifest when the resource is unreachable
	// or parses to anything other than a non-empty list of strings.
	Manifest(ctx context.Context, base string) ([]string, error)
	// Schedule returns the raw schedule document for a project.
	Schedule(ctx context.Context, base string) ([]byte, error)
	// Model returns the raw bytes of one model file.
	Model(ctx context.Context, base, file string) ([]byte, error)
}

// parseManifest decodes and validates a manifest payload.
func parseManifest(data []byte) ([]string, error) {
	var files []string
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("%w: invalid manifest: %v", apperr.ErrManifest, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: manifest is empty", apperr.ErrManifest)
	}
	for i, f := range files {
		if f == "" {
			return nil, fmt.Errorf("%w: manifest entry %d is empty", apperr.ErrManifest, i)
		}
	}
	return files, nil
}
