// Copyright 2026 Sebastian Rodriguez
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package history persists an audit trail of tagging runs in a local SQLite
// database. The store is advisory: failures here are logged and never block
// a commit.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store records and queries tagging runs.
//
// Database location: <git-dir>/lazytag/history.db unless overridden.
type Store struct {
	db *sql.DB
}

// Run is one invocation of the tagging engine.
type Run struct {
	ID        string
	Tag       string
	StartedAt time.Time
	DryRun    bool
	Files     int
	Lines     int
}

// Entry is one line rewritten during a run.
type Entry struct {
	RunID  string
	Path   string
	Line   int
	Before string
	After  string
}

// Filter narrows List results. Zero values mean no restriction.
type Filter struct {
	Tag   string
	Path  string
	Limit int
}

// NewRunID returns a fresh identifier for a tagging run.
func NewRunID() string {
	return uuid.NewString()
}

// Open creates or opens the history database at path, running migrations as
// needed. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history: failed to create database directory: %w", err)
	}

	// WAL keeps concurrent hook invocations from tripping over each other.
	connStr := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=ON"

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to run migrations: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			tag TEXT NOT NULL,
			started_at TEXT NOT NULL,
			dry_run INTEGER NOT NULL DEFAULT 0,
			files INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS entries (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			line INTEGER NOT NULL,
			before TEXT NOT NULL,
			after TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_run ON entries(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_tag ON runs(tag)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a completed run with its rewritten lines in one transaction.
func (s *Store) Record(ctx context.Context, run Run, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, tag, started_at, dry_run, files, lines) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Tag, run.StartedAt.UTC().Format(time.RFC3339), run.DryRun, run.Files, run.Lines)
	if err != nil {
		return fmt.Errorf("history: failed to insert run: %w", err)
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (run_id, path, line, before, after) VALUES (?, ?, ?, ?, ?)`,
			run.ID, e.Path, e.Line, e.Before, e.After)
		if err != nil {
			return fmt.Errorf("history: failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: failed to commit: %w", err)
	}
	return nil
}

// List returns runs matching the filter, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	query := `SELECT DISTINCT r.id, r.tag, r.started_at, r.dry_run, r.files, r.lines FROM runs r`
	var args []any
	var where []string

	if f.Path != "" {
		query += ` JOIN entries e ON e.run_id = r.id`
		where = append(where, `e.path = ?`)
		args = append(args, f.Path)
	}
	if f.Tag != "" {
		where = append(where, `r.tag = ?`)
		args = append(args, f.Tag)
	}
	for i, cond := range where {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY r.started_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Tag, &started, &r.DryRun, &r.Files, &r.Lines); err != nil {
			return nil, fmt.Errorf("history: failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the rewritten lines of one run, in insertion order.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, line, before, after FROM entries WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Path, &e.Line, &e.Before, &e.After); err != nil {
			return nil, fmt.Errorf("history: failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
