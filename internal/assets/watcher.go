package assets

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called with the affected project base path after
// viewer-relevant files under it change on disk.
type ChangeCallback func(base string)

// Watch starts an fsnotify watcher on a local assets root and reports
// project directories whose manifest, schedule, or model files change,
// until ctx is cancelled. Changes are debounced per project so a bulk
// upload of model files produces a single notification.
//
// New project directories created at runtime are added to the watch list.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("assets watcher: started", slog.String("root", root))

	const debounce = 300 * time.Millisecond
	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("assets watcher: stopped")
			return nil

		case <-flushCh:
			for base := range pending {
				logger.Debug("assets watcher: project changed", slog.String("project", base))
				if cb != nil {
					cb(base)
				}
			}
			pending = make(map[string]struct{})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("assets watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !relevant(ev.Name) {
				continue
			}
			base, ok := projectOf(root, ev.Name)
			if !ok {
				continue
			}
			pending[base] = struct{}{}
			scheduleFlush()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("assets watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether a changed file affects the viewer: model
// payloads and the two flat per-project documents.
func relevant(path string) bool {
	name := filepath.Base(path)
	if name == ManifestName || name == ScheduleName {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".glb")
}

// projectOf extracts the project base path: the first path segment of the
// file relative to the assets root.
func projectOf(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.SplitN(filepath.ToSlash(rel), "/", 2)
	if len(parts) < 2 {
		// File directly under the root belongs to no project.
		return "", false
	}
	return parts[0], true
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
