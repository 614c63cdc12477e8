// Package history persists generated suggestions in SQLite so they can be
// searched and re-applied later.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded suggestion.
type Entry struct {
	ID         int64
	Pane       string
	Command    string
	ExitCode   int
	Summary    string
	Suggestion string
	Model      string
	Confidence float64
	CreatedAt  time.Time
}

// Store wraps the SQLite database. Thread-safe for concurrent use within
// one process; WAL mode plus a busy timeout keeps cross-process access
// (daemon writing, CLI reading) safe too.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS suggestions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	pane        TEXT NOT NULL,
	command     TEXT NOT NULL,
	exit_code   INTEGER NOT NULL,
	summary     TEXT NOT NULL,
	suggestion  TEXT NOT NULL,
	model       TEXT NOT NULL,
	confidence  REAL NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_suggestions_created_at ON suggestions(created_at);
`

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("history: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}

	// WAL mode: allows concurrent readers while writing
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: wal mode: %w", err)
	}
	// Busy timeout: wait up to 5s if another process holds a lock
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close checkpoints WAL and closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Insert records one suggestion.
func (s *Store) Insert(e Entry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO suggestions (pane, command, exit_code, summary, suggestion, model, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Pane, e.Command, e.ExitCode, e.Summary, e.Suggestion, e.Model, e.Confidence, created)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first, up to limit.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, pane, command, exit_code, summary, suggestion, model, confidence, created_at
		FROM suggestions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Pane, &e.Command, &e.ExitCode,
			&e.Summary, &e.Suggestion, &e.Model, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention window, returning the
// number removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.db.Exec(`DELETE FROM suggestions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
