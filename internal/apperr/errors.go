// Package apperr defines the sentinel errors of the viewer error taxonomy.
package apperr

import "errors"

var (
	// ErrManifest marks a missing, invalid, or empty manifest. Fatal to
	// that project's load; no model set is produced.
	ErrManifest = errors.New("manifest error")
	// ErrSchedule marks a missing or invalid schedule. Non-fatal: loaded
	// models remain browsable.
	ErrSchedule = errors.New("schedule error")
	// ErrAssetLoad marks a single model file that failed to load. Logged
	// and skipped; never aborts the batch.
	ErrAssetLoad = errors.New("asset load error")
	// ErrPreload marks a failed preload fetch. Swallowed by design.
	ErrPreload = errors.New("preload error")
	// ErrLoadInFlight is returned when a project load is requested while
	// another one is still running.
	ErrLoadInFlight = errors.New("project load already in flight")
	// ErrUnknownProject is returned for a project code absent from the
	// configured project table.
	ErrUnknownProject = errors.New("unknown project")
	// ErrNotFound is the generic missing-resource sentinel.
	ErrNotFound = errors.New("not found")
)
