// Package store persists learner attempts to SQLite. The store sits
// outside the core contract: sessions run fine without one, and nothing in
// the validation or state machinery reads it back. It exists so dashboards
// and instructors can review what a learner tried.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"labsim/internal/logging"
)

// Attempt is one recorded command attempt.
type Attempt struct {
	ID        int64
	SessionID string
	Command   string
	Status    string
	Reason    string
	CreatedAt time.Time
}

// AttemptStore records attempts in a SQLite database.
type AttemptStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open initializes the SQLite database at the given path, creating the
// parent directory and schema as needed.
func Open(path string) (*AttemptStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.L(logging.CategoryStore).Debug("failed to set busy_timeout", logging.Err(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.L(logging.CategoryStore).Debug("failed to set journal_mode=WAL", logging.Err(err))
	}

	s := &AttemptStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.L(logging.CategoryStore).Info("attempt store opened", logging.String("path", path))
	return s, nil
}

func (s *AttemptStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		command TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RecordAttempt stores one attempt.
func (s *AttemptStore) RecordAttempt(sessionID, command, status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO attempts (session_id, command, status, reason) VALUES (?, ?, ?, ?)`,
		sessionID, command, status, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a session's attempts in insertion order.
func (s *AttemptStore) ListAttempts(sessionID string) ([]Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, session_id, command, status, reason, created_at
		 FROM attempts WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var reason sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Command, &a.Status, &reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Reason = reason.String
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountByStatus returns per-status attempt counts for a session.
func (s *AttemptStore) CountByStatus(sessionID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT status, COUNT(*) FROM attempts WHERE session_id = ? GROUP BY status`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (s *AttemptStore) Close() error {
	return s.db.Close()
}
