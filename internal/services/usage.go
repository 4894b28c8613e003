package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// UsageTracker records which identities were looked up and answers
// "recent" and "most used" queries over the persisted record log.
type UsageTracker struct {
	Store   ports.UsageStore
	Logger  ports.Logger
	Session string
	Now     func() time.Time
}

// NewUsageTracker builds a tracker with a fresh session id.
func NewUsageTracker(store ports.UsageStore, log ports.Logger) *UsageTracker {
	return &UsageTracker{
		Store:   store,
		Logger:  log,
		Session: uuid.NewString(),
		Now:     time.Now,
	}
}

// Record appends a usage record for the identity. Failures are reported
// but callers typically treat them as non-fatal: a broken history file
// must not break lookups.
func (t *UsageTracker) Record(id domain.Identity) error {
	if t.Store == nil {
		return errors.New("services.UsageTracker dependencies not satisfied")
	}
	return t.Store.Save(domain.UsageRecord{
		Timestamp:  t.Now(),
		Command:    id.Command,
		Subcommand: id.Subcommand,
		Session:    t.Session,
	})
}

// Recent returns the n most recently looked-up distinct identities,
// newest first.
func (t *UsageTracker) Recent(n int) ([]domain.UsageRecord, error) {
	records, err := t.records()
	if err != nil {
		return nil, err
	}
	return recentDistinct(records, n), nil
}

// Stats returns lookup frequencies, count descending; ties break by most
// recent use first.
func (t *UsageTracker) Stats(topN int) ([]domain.UsageStat, error) {
	records, err := t.records()
	if err != nil {
		return nil, err
	}
	return aggregateStats(records, topN), nil
}

func (t *UsageTracker) records() ([]domain.UsageRecord, error) {
	if t.Store == nil {
		return nil, errors.New("services.UsageTracker dependencies not satisfied")
	}
	return t.Store.Records(0)
}

// recentDistinct deduplicates newest-first records by identity, keeping
// the newest occurrence.
func recentDistinct(records []domain.UsageRecord, n int) []domain.UsageRecord {
	seen := make(map[domain.Identity]bool)
	var out []domain.UsageRecord
	for _, rec := range records {
		id := rec.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, rec)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

// aggregateStats counts lookups per identity over newest-first records.
func aggregateStats(records []domain.UsageRecord, topN int) []domain.UsageStat {
	byID := make(map[domain.Identity]*domain.UsageStat)
	order := make([]domain.Identity, 0)
	for _, rec := range records {
		id := rec.Identity()
		stat, ok := byID[id]
		if !ok {
			stat = &domain.UsageStat{Identity: id, LastUsed: rec.Timestamp}
			byID[id] = stat
			order = append(order, id)
		}
		stat.Count++
		if rec.Timestamp.After(stat.LastUsed) {
			stat.LastUsed = rec.Timestamp
		}
	}

	stats := make([]domain.UsageStat, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byID[id])
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].LastUsed.After(stats[j].LastUsed)
		}
		return stats[i].Count > stats[j].Count
	})

	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}
