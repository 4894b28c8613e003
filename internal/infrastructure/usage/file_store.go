package usage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// FileStore appends usage records to a JSONL file. It is the fallback
// when SQLite is unavailable and a selectable backend in its own right
// (usage.backend: jsonl).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path; an empty path defaults to
// ~/.cref/usage/usage.jsonl.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join(userHome(), ".cref", "usage", "usage.jsonl")
	}
	return &FileStore{path: path}
}

// Save implements ports.UsageStore.
func (f *FileStore) Save(record domain.UsageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Records returns entries newest first; limit <= 0 returns all.
// Unparseable lines are skipped (best-effort).
func (f *FileStore) Records(limit int) ([]domain.UsageRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.UsageRecord
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) == 0 {
			continue
		}
		var rec domain.UsageRecord
		if err := json.Unmarshal(lines[i], &rec); err == nil {
			records = append(records, rec)
		}
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, nil
}

// Clear removes the record file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PruneOlderThan rewrites the file keeping only records newer than the
// cutoff.
func (f *FileStore) PruneOlderThan(days int) error {
	if days <= 0 {
		return nil
	}
	records, err := f.Records(0)
	if err != nil {
		return err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var kept []domain.UsageRecord
	for i := len(records) - 1; i >= 0; i-- { // back to oldest-first order
		if records[i].Timestamp.After(cutoff) {
			kept = append(kept, records[i])
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var buf bytes.Buffer
	for _, rec := range kept {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return os.WriteFile(f.path, buf.Bytes(), 0o644)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.UsageStore = (*FileStore)(nil)
