// Package models defines the domain types for Raidho.
package models

import "time"

// EventKind distinguishes the two milestone types of a schedule member.
type EventKind string

const (
	KindFabrication EventKind = "fab"
	KindErection    EventKind = "erec"
)

// ModelEntry represents one loaded model of the active project.
type ModelEntry struct {
	// OriginalName is the filename exactly as listed in the manifest.
	OriginalName string `json:"name"`
	// Key is the normalized lookup key joining this model to schedule
	// events. Empty when the filename yields no key; such a model is
	// unreachable by cross-navigation.
	Key string `json:"key,omitempty"`
	// Handle identifies the loaded scene in the rendering collaborator.
	Handle string `json:"-"`
}

// Completion is one milestone sub-record of a schedule member.
type Completion struct {
	Date string `json:"date"`
	// File is the model filename this milestone refers to, if any.
	File string `json:"file,omitempty"`
	// Files is an alternative multi-file form; the last entry is
	// authoritative.
	Files []string `json:"files,omitempty"`
	Note  string   `json:"note,omitempty"`
}

// Member is one schedule record: a structural member with its two
// milestone completions.
type Member struct {
	Member      string     `json:"member"`
	Fabrication Completion `json:"fabricationCompletion"`
	Erection    Completion `json:"erectionCompletion"`
}

// TimelineEvent is one fabrication-or-erection milestone flattened out of
// the schedule. Index is derived as memberIndex*2 for fabrication and
// memberIndex*2+1 for erection, so a fully loaded schedule of N members
// produces exactly 2N events with indices 0..2N-1.
type TimelineEvent struct {
	Index  int       `json:"index"`
	Kind   EventKind `json:"kind"`
	Member string    `json:"member"`
	Date   string    `json:"date"`
	Note   string    `json:"note,omitempty"`
	// File is the associated model filename, if any. When the source
	// record carried a Files list, this is its last entry.
	File string `json:"file,omitempty"`
	// Key is the normalized form of File, empty when File yields no key.
	Key string `json:"key,omitempty"`
}

// CellState is the highlight mark of one schedule/timeline cell.
type CellState string

const (
	CellNone    CellState = ""
	CellDone    CellState = "done"
	CellCurrent CellState = "current"
)

// CellMark pairs an event index with its projected highlight state.
type CellMark struct {
	Index int       `json:"index"`
	State CellState `json:"state"`
}

// Popup is the prev/current/next event summary shown beside the timeline.
// Absent neighbors are empty strings.
type Popup struct {
	Prev    string `json:"prev,omitempty"`
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// Project is one entry of the static project table.
type Project struct {
	Code        string       `json:"code"`
	DisplayName string       `json:"displayName"`
	// BasePath is the storage path segment for the project's assets.
	BasePath string `json:"-"`
	Camera   CameraPolicy `json:"camera"`
}

// CameraMode selects how the camera is placed for a project.
type CameraMode string

const (
	// CameraFit places a bounding-box-fitted default camera with full
	// orbit control.
	CameraFit CameraMode = "fit"
	// CameraFixed places a parameterized camera with rotation and pan
	// disabled, zoom only.
	CameraFixed CameraMode = "fixed"
)

// CameraPolicy is the per-project camera placement, expressed as data
// rather than branching in the navigation path. For CameraFixed the
// placement fields may be overridden per request.
type CameraPolicy struct {
	Mode           CameraMode `json:"mode" yaml:"mode"`
	ElevationDeg   float64    `json:"elevationDeg" yaml:"elevation_deg"`
	AzimuthDeg     float64    `json:"azimuthDeg" yaml:"azimuth_deg"`
	DistanceFactor float64    `json:"distanceFactor" yaml:"distance_factor"`
	RotationYDeg   float64    `json:"rotationYDeg" yaml:"rotation_y_deg"`
	TargetX        float64    `json:"targetX" yaml:"target_x"`
	TargetY        float64    `json:"targetY" yaml:"target_y"`
	TargetZ        float64    `json:"targetZ" yaml:"target_z"`
}

// OrbitEnabled reports whether free orbit/pan interaction is allowed.
func (p CameraPolicy) OrbitEnabled() bool { return p.Mode != CameraFixed }

// StateSnapshot is the externally visible navigation state.
type StateSnapshot struct {
	Project        string     `json:"project"`
	DisplayName    string     `json:"displayName"`
	ModelIndex     int        `json:"modelIndex"`
	ModelCount     int        `json:"modelCount"`
	ModelName      string     `json:"modelName"`
	TimelineIndex  int        `json:"timelineIndex"` // -1 when unset
	EventCount     int        `json:"eventCount"`
	Autoplay       bool       `json:"autoplay"`
	Rotate         bool       `json:"rotate"`
	Marks          []CellMark `json:"marks"`
	Popup          Popup      `json:"popup"`
	ScheduleStatus string     `json:"scheduleStatus,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
