package index

import "github.com/starford/raidho/internal/models"

// EventIndex defines the interface for schedule event indexing.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type EventIndex interface {
	ReplaceProject(project string, events []models.TimelineEvent) error
	Events(project string) ([]models.TimelineEvent, error)
	Search(project, query string, limit int) ([]models.TimelineEvent, error)
	Close() error
}

// Verify *DB satisfies EventIndex at compile time.
var _ EventIndex = (*DB)(nil)
