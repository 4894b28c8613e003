// Package usage persists the append-only log of catalog lookups.
package usage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// SQLiteStore persists usage records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path; an empty path
// defaults to ~/.cref/usage/usage.db. If the database cannot be opened
// the store degrades to the JSONL file store alongside it.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(userHome(), ".cref", "usage", "usage.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS lookups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		command TEXT,
		subcommand TEXT,
		session TEXT
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return &FileStore{path: strings.TrimSuffix(s.path, ".db") + ".jsonl"}
}

// Save appends a record.
func (s *SQLiteStore) Save(record domain.UsageRecord) error {
	if s.db == nil {
		return s.fallback().Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO lookups (timestamp, command, subcommand, session)
		VALUES (?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.Command,
		record.Subcommand,
		record.Session,
	)
	return err
}

// Records returns entries newest first; limit <= 0 returns all.
func (s *SQLiteStore) Records(limit int) ([]domain.UsageRecord, error) {
	if s.db == nil {
		return s.fallback().Records(limit)
	}
	query := "SELECT timestamp, command, subcommand, session FROM lookups ORDER BY id DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.UsageRecord
	for rows.Next() {
		var rec domain.UsageRecord
		var ts string
		if err := rows.Scan(&ts, &rec.Command, &rec.Subcommand, &rec.Session); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all records.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM lookups")
	return err
}

// PruneOlderThan removes records older than the given number of days.
func (s *SQLiteStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	if s.db == nil {
		return s.fallback().PruneOlderThan(days)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -days).Format(time.RFC3339)
	_, err := s.db.Exec("DELETE FROM lookups WHERE timestamp < ?", cutoff)
	if err != nil {
		return fmt.Errorf("prune usage records: %w", err)
	}
	return nil
}

// Path returns the path records are actually written to: the database,
// or the JSONL file when the store has degraded.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback().Path()
	}
	return s.path
}

var _ ports.UsageStore = (*SQLiteStore)(nil)
