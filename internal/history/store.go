package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Store reads and appends run records in a JSON history file.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore creates a store backed by the file at path. The file is created on
// first append.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the history file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the history file. A missing file yields an empty history.
func (s *Store) Load() (*History, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{Runs: []RunRecord{}}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if h.Runs == nil {
		h.Runs = []RunRecord{}
	}
	return &h, nil
}

// Append adds a record to the end of the history file. The file is locked for
// the read-modify-write cycle and replaced atomically.
func (s *Store) Append(rec RunRecord) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	defer s.lock.Unlock()

	h, err := s.Load()
	if err != nil {
		return nil, err
	}
	h.Runs = append(h.Runs, rec)

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	// Write to temp file first
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, append(data, '\n'), 0600); err != nil {
		return nil, fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		return nil, fmt.Errorf("finalize history: %w", err)
	}

	return h, nil
}
