// Package viewer implements the model/timeline synchronization core: the
// per-project session, the project load orchestration, and the navigation
// controller that every UI entry point funnels through.
package viewer

import (
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/schedule"
)

// Session is the state of one loaded project: the indexed model set, the
// derived timeline events, and the two key maps joining them. A Session
// is immutable after construction and replaced wholesale on project
// switch, which rules out the stale-global class of bugs.
type Session struct {
	Project models.Project
	// Files is the manifest in original order, including entries that
	// failed to load.
	Files  []string
	Models []models.ModelEntry
	Events []models.TimelineEvent
	// ScheduleStatus carries the inline schedule-area error text when the
	// schedule failed to load; empty otherwise.
	ScheduleStatus string

	keyToModel    map[string]int
	keyToTimeline map[string]int
	modelNames    []string
}

// NewSession builds a session from the loaded models and derived events,
// rebuilding both lookup maps from scratch.
func NewSession(project models.Project, files []string, entries []models.ModelEntry, events []models.TimelineEvent, scheduleStatus string) *Session {
	s := &Session{
		Project:        project,
		Files:          files,
		Models:         entries,
		Events:         events,
		ScheduleStatus: scheduleStatus,
		keyToModel:     make(map[string]int, len(entries)),
		keyToTimeline:  schedule.KeyIndex(events),
		modelNames:     make([]string, len(entries)),
	}
	for i, m := range entries {
		s.modelNames[i] = m.OriginalName
		if m.Key == "" {
			continue
		}
		if _, ok := s.keyToModel[m.Key]; !ok {
			s.keyToModel[m.Key] = i
		}
	}
	return s
}

// ModelByKey returns the model index for a normalized key.
func (s *Session) ModelByKey(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	i, ok := s.keyToModel[key]
	return i, ok
}

// TimelineByKey returns the timeline index for a normalized key.
func (s *Session) TimelineByKey(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	i, ok := s.keyToTimeline[key]
	return i, ok
}

// ModelNames returns the loaded models' original filenames in index
// order, the file list the preloader navigates.
func (s *Session) ModelNames() []string { return s.modelNames }
