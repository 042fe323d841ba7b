// Package recorder persists cube sessions as they are played.
package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is what the recorder remembers between runs of the CLI.
type State struct {
	DBPath string `json:"db_path,omitempty"`

	// Active is the session being recorded, if a recording is open.
	Active      string     `json:"active_session,omitempty"`
	ActiveSince *time.Time `json:"active_since,omitempty"`

	// LastEnded is the most recently finished session.
	LastEnded string `json:"last_ended,omitempty"`
}

// StateFile keeps State on disk under a lock. Every change is written
// through a temporary file and renamed into place, so a crash leaves either
// the old state or the new one.
type StateFile struct {
	mu    sync.Mutex
	path  string
	state State
}

// DefaultStatePath is ~/.gocube_sim/state.json.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gocube_sim", "state.json"), nil
}

// LoadStateFile reads the state at path. A missing file is an empty state
// and is only created on the first change.
func LoadStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sf, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &sf.state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return sf, nil
}

// LoadDefaultStateFile loads the state at DefaultStatePath.
func LoadDefaultStateFile() (*StateFile, error) {
	path, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return LoadStateFile(path)
}

// Path returns where the state is stored.
func (sf *StateFile) Path() string {
	return sf.path
}

// Snapshot returns a copy of the current state.
func (sf *StateFile) Snapshot() State {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.state
}

// Update applies change and writes the result. On a failed write the
// in-memory state is left as it was.
func (sf *StateFile) Update(change func(*State)) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	next := sf.state
	change(&next)
	if err := sf.write(next); err != nil {
		return err
	}
	sf.state = next
	return nil
}

func (sf *StateFile) write(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(sf.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), sf.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// RememberDB records the database the recordings live in.
func (sf *StateFile) RememberDB(path string) error {
	return sf.Update(func(s *State) { s.DBPath = path })
}

// Activate marks sessionID as the open recording.
func (sf *StateFile) Activate(sessionID string, at time.Time) error {
	return sf.Update(func(s *State) {
		s.Active = sessionID
		s.ActiveSince = &at
	})
}

// Deactivate closes the open recording and remembers it as the last one.
func (sf *StateFile) Deactivate() error {
	return sf.Update(func(s *State) {
		if s.Active != "" {
			s.LastEnded = s.Active
		}
		s.Active = ""
		s.ActiveSince = nil
	})
}

// ActiveSessionID returns the open recording, empty when none.
func (sf *StateFile) ActiveSessionID() string {
	return sf.Snapshot().Active
}

// LastSessionID returns the most recently finished recording.
func (sf *StateFile) LastSessionID() string {
	return sf.Snapshot().LastEnded
}
