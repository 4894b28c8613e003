package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/cref-go/internal/domain"
)

// stubStore keeps records in memory, newest first, matching the store
// contract.
type stubStore struct {
	records []domain.UsageRecord
	saveErr error
}

func (s *stubStore) Save(rec domain.UsageRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = append([]domain.UsageRecord{rec}, s.records...)
	return nil
}

func (s *stubStore) Records(limit int) ([]domain.UsageRecord, error) {
	if limit > 0 && len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubStore) Clear() error             { s.records = nil; return nil }
func (s *stubStore) PruneOlderThan(int) error { return nil }
func (s *stubStore) Path() string             { return "stub" }

func at(minute int) time.Time {
	return time.Date(2026, 8, 26, 12, minute, 0, 0, time.UTC)
}

func TestRecordStampsSessionAndTime(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	tracker.Now = func() time.Time { return at(0) }

	if err := tracker.Record(domain.Identity{Command: "git", Subcommand: "commit"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("saved %d records, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.Command != "git" || rec.Subcommand != "commit" {
		t.Errorf("record identity = %s", rec.Identity())
	}
	if rec.Session != tracker.Session || rec.Session == "" {
		t.Errorf("session = %q, want tracker session", rec.Session)
	}
	if !rec.Timestamp.Equal(at(0)) {
		t.Errorf("timestamp = %v", rec.Timestamp)
	}
}

func TestRecentDeduplicatesByIdentity(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	minute := 0
	tracker.Now = func() time.Time { minute++; return at(minute) }

	ids := []domain.Identity{
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "push"},
		{Command: "git", Subcommand: "commit"},
		{Command: "docker", Subcommand: "run"},
	}
	for _, id := range ids {
		if err := tracker.Record(id); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := tracker.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	var got []domain.Identity
	for _, rec := range recent {
		got = append(got, rec.Identity())
	}
	want := []domain.Identity{
		{Command: "docker", Subcommand: "run"},
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "push"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	minute := 0
	tracker.Now = func() time.Time { minute++; return at(minute) }

	for _, sub := range []string{"commit", "push", "pull"} {
		if err := tracker.Record(domain.Identity{Command: "git", Subcommand: sub}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := tracker.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Subcommand != "pull" {
		t.Errorf("newest first violated: %s", recent[0].Identity())
	}
}

func TestStatsCountsAndOrders(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	minute := 0
	tracker.Now = func() time.Time { minute++; return at(minute) }

	sequence := []domain.Identity{
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "push"},
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "commit"},
	}
	for _, id := range sequence {
		if err := tracker.Record(id); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := tracker.Stats(10)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	if stats[0].Identity.Subcommand != "commit" || stats[0].Count != 3 {
		t.Errorf("top stat = %+v", stats[0])
	}
	if stats[1].Identity.Subcommand != "push" || stats[1].Count != 1 {
		t.Errorf("second stat = %+v", stats[1])
	}
	if !stats[0].LastUsed.Equal(at(4)) {
		t.Errorf("LastUsed = %v, want latest occurrence", stats[0].LastUsed)
	}
}

func TestStatsTieBreaksByRecency(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	minute := 0
	tracker.Now = func() time.Time { minute++; return at(minute) }

	// Equal counts; docker run used most recently.
	for _, id := range []domain.Identity{
		{Command: "git", Subcommand: "commit"},
		{Command: "docker", Subcommand: "run"},
	} {
		if err := tracker.Record(id); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := tracker.Stats(10)
	if err != nil {
		t.Fatal(err)
	}
	if stats[0].Identity.Command != "docker" {
		t.Errorf("tie should break by recency, got %s first", stats[0].Identity)
	}
}

func TestStatsTopN(t *testing.T) {
	store := &stubStore{}
	tracker := NewUsageTracker(store, nil)
	minute := 0
	tracker.Now = func() time.Time { minute++; return at(minute) }

	for _, sub := range []string{"commit", "push", "pull"} {
		if err := tracker.Record(domain.Identity{Command: "git", Subcommand: sub}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := tracker.Stats(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Errorf("len = %d, want 2", len(stats))
	}
}
