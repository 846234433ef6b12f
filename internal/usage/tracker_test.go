package usage

import (
	"path/filepath"
	"testing"
	"time"

	"goldstrategist/internal/database"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)}
	tr := NewTracker(NewMemoryStore())
	tr.now = clock.now
	return tr, clock
}

func TestIsRateLimitedPerMinute(t *testing.T) {
	tr, clock := newTestTracker()

	for i := 0; i < 14; i++ {
		tr.Record("key-a", 100)
	}
	if reason := tr.IsRateLimited("key-a", 15, 1500); reason != "" {
		t.Errorf("Expected not limited at 14/15, got %q", reason)
	}

	tr.Record("key-a", 100)
	if reason := tr.IsRateLimited("key-a", 15, 1500); reason == "" {
		t.Error("Expected limited at 15/15 requests in the last minute")
	}

	// Still limited until the oldest counted request ages out of the
	// 60-second window.
	clock.advance(59 * time.Second)
	if reason := tr.IsRateLimited("key-a", 15, 1500); reason == "" {
		t.Error("Expected still limited at 59s")
	}
	clock.advance(2 * time.Second)
	if reason := tr.IsRateLimited("key-a", 15, 1500); reason != "" {
		t.Errorf("Expected window to age out after 60s, got %q", reason)
	}
}

func TestIsRateLimitedPerDay(t *testing.T) {
	tr, clock := newTestTracker()

	for i := 0; i < 50; i++ {
		tr.Record("key-b", 10)
		clock.advance(2 * time.Minute)
	}
	reason := tr.IsRateLimited("key-b", 15, 50)
	if reason == "" {
		t.Fatal("Expected daily limit to trip at 50 requests")
	}

	// Entries before local midnight do not count toward today.
	clock.advance(24 * time.Hour)
	if reason := tr.IsRateLimited("key-b", 15, 50); reason != "" {
		t.Errorf("Expected limit reset on the next day, got %q", reason)
	}
}

func TestStatsCountsWindows(t *testing.T) {
	tr, clock := newTestTracker()

	tr.Record("key-c", 500)
	clock.advance(30 * time.Second)
	tr.Record("key-c", 300)
	clock.advance(45 * time.Second)
	tr.Record("key-c", 200)

	s := tr.Stats("key-c")
	if s.RequestsLastMinute != 2 {
		t.Errorf("RequestsLastMinute = %d, want 2", s.RequestsLastMinute)
	}
	if s.TokensLastMinute != 500 {
		t.Errorf("TokensLastMinute = %d, want 500", s.TokensLastMinute)
	}
	if s.RequestsToday != 3 {
		t.Errorf("RequestsToday = %d, want 3", s.RequestsToday)
	}
}

func TestRecordPrunesOldEntries(t *testing.T) {
	store := NewMemoryStore()
	tr := NewTracker(store)
	clock := &fakeClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)}
	tr.now = clock.now

	tr.Record("key-d", 100)
	clock.advance(25 * time.Hour)
	tr.Record("key-d", 100)

	entries, err := store.Since("key-d", clock.t.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("Since failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected stale entry pruned on Record, got %d entries", len(entries))
	}
}

func TestMarkExhausted(t *testing.T) {
	tr, _ := newTestTracker()

	tr.Record("key-e", 100)
	tr.MarkExhausted("key-e", 15)

	if reason := tr.IsRateLimited("key-e", 15, 1500); reason == "" {
		t.Error("Expected key marked exhausted after MarkExhausted")
	}
	if s := tr.Stats("key-e"); s.RequestsLastMinute != 15 {
		t.Errorf("RequestsLastMinute = %d, want exactly 15", s.RequestsLastMinute)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "usage.db")

	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	tr := NewTracker(NewSQLiteStore(db.SQL))
	for i := 0; i < 15; i++ {
		tr.Record("key-f", 100)
	}
	if reason := tr.IsRateLimited("key-f", 15, 1500); reason == "" {
		t.Fatal("Expected key limited before reopen")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	// A key exhausted before a restart must still appear exhausted after it.
	db2, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()
	tr2 := NewTracker(NewSQLiteStore(db2.SQL))
	if reason := tr2.IsRateLimited("key-f", 15, 1500); reason == "" {
		t.Error("Expected key still limited after reopen")
	}
}

func TestOpenTrackerDegradesSilently(t *testing.T) {
	// A path that cannot be created forces the in-memory fallback.
	tr := OpenTracker(filepath.Join(string([]byte{0}), "nope", "usage.db"))
	tr.Record("key-g", 10)
	if s := tr.Stats("key-g"); s.RequestsToday != 1 {
		t.Errorf("Expected in-memory fallback to keep counting, got %+v", s)
	}
}
