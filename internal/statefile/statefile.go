// Package statefile persists the small client state that survives restarts:
// the last-selected watchlist symbol. Stored as a JSON file so a corrupt or
// missing file degrades to "nothing persisted" instead of an error.
package statefile

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type payload struct {
	SelectedSymbol string `json:"selected_symbol,omitempty"`
}

// Store reads and writes the state file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the given path. Parent directories are
// created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Selected returns the persisted symbol, or "" when nothing usable is on
// disk. Read failures are treated as absence.
func (s *Store) Selected() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	return p.SelectedSymbol
}

// Save writes the selected symbol, replacing any previous value.
func (s *Store) Save(symbol string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(payload{SelectedSymbol: symbol})
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the persisted selection. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
