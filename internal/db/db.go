package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with course-coach schema management.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema contains the full database schema. New tables are added here.
// Skill lists and preference lists are stored as JSON arrays; the feedback
// log lives in its own table so Save can rewrite it transactionally while
// keeping log order via position.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    blurb TEXT NOT NULL DEFAULT '',
    headline TEXT NOT NULL DEFAULT '',
    goal TEXT NOT NULL DEFAULT '',
    company_goal TEXT NOT NULL DEFAULT '',
    format_prefs TEXT NOT NULL DEFAULT '[]',
    style_prefs TEXT NOT NULL DEFAULT '[]',
    avoid_styles TEXT NOT NULL DEFAULT '[]',
    known_skills TEXT NOT NULL DEFAULT '[]',
    missing_skills TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS feedback_entries (
    user_id TEXT NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    course_id TEXT NOT NULL,
    course_title TEXT NOT NULL DEFAULT '',
    feedback_type TEXT NOT NULL CHECK(feedback_type IN ('keep','adjust','reject')),
    reason TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT 'unknown',
    confidence TEXT NOT NULL DEFAULT 'low' CHECK(confidence IN ('high','medium','low')),
    reasoning TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    PRIMARY KEY(user_id, position)
);

CREATE INDEX IF NOT EXISTS idx_feedback_course ON feedback_entries(user_id, course_id);
CREATE INDEX IF NOT EXISTS idx_feedback_type ON feedback_entries(user_id, feedback_type);
`
