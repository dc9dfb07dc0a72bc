// Package history archives the outcome of full login resolutions into a
// local SQLite database so operators can track login drift over time.
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the snapshot schema.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    taken_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);

CREATE TABLE IF NOT EXISTS snapshot_records (
    snapshot_id TEXT NOT NULL,
    uid INTEGER,
    name TEXT NOT NULL,
    tty TEXT,
    kind INTEGER NOT NULL,
    last_login TIMESTAMP,
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id)
);
CREATE INDEX IF NOT EXISTS idx_snapshot_records_snapshot ON snapshot_records(snapshot_id);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
