// Package sqlite stores submitted sessions in a SQLite database, one row
// per session, mirroring the column layout of the original collection sheet.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema is created lazily on open, so the first submission against a fresh
// database finds the table in place.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id                         TEXT PRIMARY KEY,
	received_at                TEXT NOT NULL,
	date                       TEXT NOT NULL,
	start_time                 INTEGER NOT NULL,
	end_time                   INTEGER NOT NULL,
	duration_seconds           INTEGER NOT NULL,
	predicted_duration_seconds INTEGER,
	detection_time             INTEGER NOT NULL,
	estimated_focus_seconds    INTEGER,
	participant_id             TEXT NOT NULL,
	browser_info               TEXT NOT NULL,
	experiment_version         TEXT NOT NULL,
	submission_timestamp       TEXT NOT NULL
)`

// Open opens the database at path, enables WAL mode, and ensures the
// sessions table exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return db, nil
}
