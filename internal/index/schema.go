// Package index provides a SQLite-backed index of derived timeline events,
// rebuilt per project load and queried by the schedule table search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	project  TEXT NOT NULL,
	idx      INTEGER NOT NULL,
	kind     TEXT NOT NULL,
	member   TEXT NOT NULL DEFAULT '',
	date     TEXT NOT NULL DEFAULT '',
	note     TEXT NOT NULL DEFAULT '',
	file     TEXT NOT NULL DEFAULT '',
	norm_key TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project, idx)
);

CREATE INDEX IF NOT EXISTS idx_events_member ON events(project, member);
CREATE INDEX IF NOT EXISTS idx_events_key ON events(project, norm_key);
`

// DB wraps a sql.DB with event-index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
