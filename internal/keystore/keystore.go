// Package keystore persists the user's ordered API key list and UI
// preferences to a small versioned JSON file. The key order is the rotation
// order the orchestrator follows.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const currentVersion = 1

// State is the persisted shape. Version guards against future layout
// changes; an unknown version is treated as absent state rather than being
// reinterpreted.
type State struct {
	Version int      `json:"version"`
	Keys    []string `json:"keys"`
	Theme   string   `json:"theme,omitempty"`
}

// Store reads and writes the state file.
type Store struct {
	path string
}

// NewStore creates a Store and ensures its directory exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads the persisted state. A missing file or an unknown version
// yields empty state, not an error.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{Version: currentVersion}, nil
		}
		return State{}, fmt.Errorf("failed to read keystore: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("failed to parse keystore: %w", err)
	}
	if st.Version != currentVersion {
		return State{Version: currentVersion}, nil
	}
	return st, nil
}

// Save writes the state back to disk.
func (s *Store) Save(st State) error {
	st.Version = currentVersion
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}

// AddKey appends a key if it is plausible and not already present, then
// persists. Keys shorter than 11 characters are rejected, matching the
// input validation of the key manager UI.
func (s *Store) AddKey(key string) error {
	key = strings.TrimSpace(key)
	if len(key) <= 10 {
		return fmt.Errorf("api key looks too short")
	}

	st, err := s.Load()
	if err != nil {
		return err
	}
	for _, k := range st.Keys {
		if k == key {
			return nil
		}
	}
	st.Keys = append(st.Keys, key)
	return s.Save(st)
}

// Keys returns the persisted key list in rotation order.
func (s *Store) Keys() ([]string, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	return st.Keys, nil
}
