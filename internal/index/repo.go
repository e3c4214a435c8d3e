package index

import (
	"fmt"

	"github.com/starford/raidho/internal/models"
)

// ReplaceProject atomically swaps a project's indexed events: the old set
// is deleted and the new one inserted within a single transaction, so the
// index is never partially updated.
func (db *DB) ReplaceProject(project string, events []models.TimelineEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM events WHERE project = ?`, project); err != nil {
		return fmt.Errorf("index: clear project: %w", err)
	}

	if len(events) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO events (project, idx, kind, member, date, note, file, norm_key)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range events {
			if _, err := stmt.Exec(project, e.Index, string(e.Kind), e.Member, e.Date, e.Note, e.File, e.Key); err != nil {
				return fmt.Errorf("index: insert event %d: %w", e.Index, err)
			}
		}
	}

	return tx.Commit()
}

// Events returns a project's indexed events ordered by index.
func (db *DB) Events(project string) ([]models.TimelineEvent, error) {
	rows, err := db.conn.Query(`
		SELECT idx, kind, member, date, note, file, norm_key
		FROM events
		WHERE project = ?
		ORDER BY idx
	`, project)
	if err != nil {
		return nil, fmt.Errorf("index: events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Search returns events whose member, note, or file matches the query,
// ordered by index.
func (db *DB) Search(project, query string, limit int) ([]models.TimelineEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT idx, kind, member, date, note, file, norm_key
		FROM events
		WHERE project = ? AND (member LIKE ? OR note LIKE ? OR file LIKE ?)
		ORDER BY idx
		LIMIT ?
	`, project, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows rowScanner) ([]models.TimelineEvent, error) {
	var out []models.TimelineEvent
	for rows.Next() {
		var e models.TimelineEvent
		var kind string
		if err := rows.Scan(&e.Index, &kind, &e.Member, &e.Date, &e.Note, &e.File, &e.Key); err != nil {
			return nil, err
		}
		e.Kind = models.EventKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
