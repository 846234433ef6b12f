package usage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SQLiteStore persists usage entries to the usage_log table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an existing database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Append(key string, e Entry) error {
	_, err := s.db.Exec(
		"INSERT INTO usage_log (api_key, recorded_at, token_count) VALUES (?, ?, ?)",
		key, e.At.UnixMilli(), e.Tokens,
	)
	if err != nil {
		return fmt.Errorf("failed to append usage entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) PruneBefore(key string, cutoff time.Time) error {
	_, err := s.db.Exec(
		"DELETE FROM usage_log WHERE api_key = ? AND recorded_at < ?",
		key, cutoff.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to prune usage entries: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Since(key string, cutoff time.Time) ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT recorded_at, token_count FROM usage_log WHERE api_key = ? AND recorded_at >= ? ORDER BY recorded_at",
		key, cutoff.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var ms int64
		var tokens int
		if err := rows.Scan(&ms, &tokens); err != nil {
			return nil, fmt.Errorf("failed to scan usage entry: %w", err)
		}
		entries = append(entries, Entry{At: time.UnixMilli(ms), Tokens: tokens})
	}
	return entries, rows.Err()
}

// MemoryStore keeps usage entries in process memory only. It is the silent
// fallback when durable storage cannot be opened.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]Entry)}
}

func (m *MemoryStore) Append(key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append(m.entries[key], e)
	return nil
}

func (m *MemoryStore) PruneBefore(key string, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[key][:0]
	for _, e := range m.entries[key] {
		if !e.At.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	m.entries[key] = kept
	return nil
}

func (m *MemoryStore) Since(key string, cutoff time.Time) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries[key] {
		if !e.At.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}
