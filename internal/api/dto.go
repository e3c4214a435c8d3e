package api

import (
	"github.com/starford/raidho/internal/models"
)

// NavCellRequest is the request body for a schedule-cell click. The
// timeline index identifies the clicked cell; the file is the model
// filename the cell carries, and may be empty.
type NavCellRequest struct {
	TimelineIndex int    `json:"timelineIndex" validate:"required"`
	File          string `json:"file,omitempty" example:"BSGSifc-114.glb"`
}

// ToggleRequest is the request body for the autoplay and rotation toggles.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ProjectInfo describes one configured project.
type ProjectInfo struct {
	Code        string `json:"code" example:"bsgs" validate:"required"`
	DisplayName string `json:"displayName" example:"BSGS Plant" validate:"required"`
}

// ProjectListResponse wraps the configured project list.
type ProjectListResponse struct {
	Projects []ProjectInfo `json:"projects" validate:"required"`
	Default  string        `json:"default,omitempty" example:"bsgs"`
}

// StateResponse is the navigation state payload (aliased from the domain layer).
type StateResponse = models.StateSnapshot

// ScheduleResponse wraps the timeline events of a loaded project.
type ScheduleResponse struct {
	Project string                 `json:"project" example:"bsgs" validate:"required"`
	Events  []models.TimelineEvent `json:"events" validate:"required"`
}

// SearchResponse wraps schedule search hits.
type SearchResponse struct {
	Results []models.TimelineEvent `json:"results" validate:"required"`
}

// LoadAcceptedResponse is returned when a project load has been started.
type LoadAcceptedResponse struct {
	Project string `json:"project" example:"bsgs" validate:"required"`
	Status  string `json:"status" example:"loading" validate:"required"`
}
