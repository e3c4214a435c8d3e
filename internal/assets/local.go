package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/raidho/internal/apperr"
)

// Local implements Provider backed by a static directory, laid out as
// <root>/<projectBase>/<file>. This is the local/static variant of the
// asset base.
type Local struct {
	root string // absolute path to the assets directory
}

// NewLocal creates a Local provider rooted at the given directory.
// The directory must already exist.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("assets: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("assets: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: root is not a directory: %s", abs)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute assets directory, used by the change watcher.
func (l *Local) Root() string { return l.root }

// safePath resolves base/name against the assets root and rejects any
// result that escapes it (directory traversal).
func (l *Local) safePath(base, name string) (string, error) {
	rel := filepath.Clean(filepath.Join(base, name))
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("assets: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(l.root, rel))
	if err != nil {
		return "", fmt.Errorf("assets: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, l.root+string(os.PathSeparator)) && abs != l.root {
		return "", fmt.Errorf("assets: path escapes assets root: %s", rel)
	}
	return abs, nil
}

func (l *Local) read(base, name string) ([]byte, error) {
	abs, err := l.safePath(base, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", apperr.ErrNotFound, base, name)
		}
		return nil, fmt.Errorf("assets: read %s/%s: %w", base, name, err)
	}
	return data, nil
}

// Manifest reads and validates <root>/<base>/manifest.json.
func (l *Local) Manifest(_ context.Context, base string) ([]string, error) {
	data, err := l.read(base, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrManifest, err)
	}
	return parseManifest(data)
}

// Schedule reads <root>/<base>/schedule.json.
func (l *Local) Schedule(_ context.Context, base string) ([]byte, error) {
	data, err := l.read(base, ScheduleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSchedule, err)
	}
	return data, nil
}

// Model reads one model payload from <root>/<base>/<file>.
func (l *Local) Model(_ context.Context, base, file string) ([]byte, error) {
	return l.read(base, file)
}
