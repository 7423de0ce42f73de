// Package sqlite provides a SQLite-backed store for local development and
// tests. It uses the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite implementation of advisor.Store.
type Store struct {
	db *sql.DB
}

var _ advisor.Store = (*Store)(nil)

// Open opens (or creates) the database at path and creates missing tables.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer; also keeps :memory: alive

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		year        INTEGER NOT NULL DEFAULT 1,
		hybrid_mode TEXT NOT NULL DEFAULT '',
		embedding   TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS talents (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id     TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		type           TEXT NOT NULL DEFAULT '',
		name           TEXT NOT NULL,
		measured_score INTEGER NOT NULL DEFAULT 0,
		confidence     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS interests (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id      TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		topic           TEXT NOT NULL,
		strength        INTEGER NOT NULL DEFAULT 1,
		confidence      TEXT NOT NULL DEFAULT '',
		mapped_concepts TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS career_paths (
		id              TEXT PRIMARY KEY,
		seq             INTEGER NOT NULL,
		name            TEXT NOT NULL,
		industry        TEXT NOT NULL,
		subfield        TEXT NOT NULL,
		marketing_blurb TEXT NOT NULL DEFAULT '',
		system_blurb    TEXT NOT NULL DEFAULT '',
		is_hybrid       INTEGER NOT NULL DEFAULT 0,
		hybrid_type     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id          TEXT PRIMARY KEY,
		path_id     TEXT NOT NULL REFERENCES career_paths(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		skill_id       TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		title          TEXT NOT NULL,
		provider       TEXT NOT NULL DEFAULT '',
		duration_hours INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS specialized_training (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		path_id     TEXT NOT NULL REFERENCES career_paths(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS coop_opportunities (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		path_id  TEXT NOT NULL REFERENCES career_paths(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		company  TEXT NOT NULL,
		title    TEXT NOT NULL,
		openings INTEGER NOT NULL DEFAULT 0,
		active   INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS skill_progress (
		student_id  TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		skill_id    TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		proficiency INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (student_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id              TEXT PRIMARY KEY,
		student_id      TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		name            TEXT NOT NULL DEFAULT '',
		talents         TEXT NOT NULL,
		interests       TEXT NOT NULL,
		hybrid_mode     TEXT NOT NULL DEFAULT '',
		recommendations TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_results_student ON quiz_results(student_id, created_at)`,
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: bad timestamp %q: %w", s, err)
	}
	return t, nil
}

// rollback is deferred after BeginTx; it is a no-op once the tx is committed.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
