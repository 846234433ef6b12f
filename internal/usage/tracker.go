// Package usage maintains a rolling 24-hour, per-API-key ledger of request
// timestamps and token counts, and answers whether a request would exceed a
// model's rate limits right now. The ledger is persisted to SQLite so a key
// exhausted before a restart is still exhausted after it; when storage is
// unavailable the tracker degrades to in-memory operation without surfacing
// an error to callers.
package usage

import (
	"fmt"
	"time"

	"goldstrategist/internal/database"
)

const retention = 24 * time.Hour

// Entry is one recorded request against a key.
type Entry struct {
	At     time.Time
	Tokens int
}

// Stats summarizes recent activity for a key.
type Stats struct {
	RequestsLastMinute int
	TokensLastMinute   int
	RequestsToday      int
}

// Store persists usage entries. Implementations must keep entries in
// insertion order per key.
type Store interface {
	Append(key string, e Entry) error
	PruneBefore(key string, cutoff time.Time) error
	Since(key string, cutoff time.Time) ([]Entry, error)
}

// Tracker answers rate-limit questions against a Store.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// OpenTracker opens a SQLite-backed tracker at dbPath. If the database
// cannot be opened (read-only media, denied storage) it silently falls back
// to an in-memory store with identical semantics.
func OpenTracker(dbPath string) *Tracker {
	db, err := database.New(dbPath)
	if err != nil {
		return NewTracker(NewMemoryStore())
	}
	return NewTracker(NewSQLiteStore(db.SQL))
}

// Record appends a now-stamped entry for key and prunes entries older than
// 24 hours in the same call. Store failures are swallowed: accounting is a
// best-effort safety net, never a reason to block the caller.
func (t *Tracker) Record(key string, tokens int) {
	now := t.now()
	_ = t.store.PruneBefore(key, now.Add(-retention))
	_ = t.store.Append(key, Entry{At: now, Tokens: tokens})
}

// MarkExhausted synthetically fills the trailing minute window for key so
// that IsRateLimited keeps reporting it until the window ages out. Called
// after a provider returns 429/503 for the key.
func (t *Tracker) MarkExhausted(key string, rpm int) {
	missing := rpm - t.Stats(key).RequestsLastMinute
	for i := 0; i < missing; i++ {
		t.Record(key, 0)
	}
}

// Stats computes the trailing-minute and since-midnight counters for key.
func (t *Tracker) Stats(key string) Stats {
	now := t.now()
	entries, err := t.store.Since(key, now.Add(-retention))
	if err != nil {
		return Stats{}
	}

	minuteCutoff := now.Add(-time.Minute)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var s Stats
	for _, e := range entries {
		if !e.At.Before(minuteCutoff) {
			s.RequestsLastMinute++
			s.TokensLastMinute += e.Tokens
		}
		if !e.At.Before(midnight) {
			s.RequestsToday++
		}
	}
	return s
}

// IsRateLimited reports why a request against key would exceed the given
// limits, or "" when it would not. The per-minute limit is checked before
// the per-day limit.
func (t *Tracker) IsRateLimited(key string, rpm, rpd int) string {
	s := t.Stats(key)
	if rpm > 0 && s.RequestsLastMinute >= rpm {
		return fmt.Sprintf("per-minute limit reached (%d/%d requests in the last 60s)", s.RequestsLastMinute, rpm)
	}
	if rpd > 0 && s.RequestsToday >= rpd {
		return fmt.Sprintf("daily limit reached (%d/%d requests today)", s.RequestsToday, rpd)
	}
	return ""
}
