package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CheckpointFile is the fixed checkpoint file name under the base directory.
const CheckpointFile = "interview.json"

// Store persists interview checkpoints as a versioned JSON document.
// Single writer, last-write-wins; two orchestrators sharing a base
// directory race and the store does nothing to prevent it.
type Store struct {
	dir string
}

// NewStore creates a checkpoint store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the checkpoint file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, CheckpointFile)
}

// Save writes the state checkpoint and returns the path written.
func (s *Store) Save(state State) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}

	path := s.Path()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return path, nil
}

// Load reads the checkpoint. The second return is false when no
// checkpoint exists.
func (s *Store) Load() (State, bool, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("checkpoint corrupted: %w", err)
	}
	if state.Version != StateVersion {
		return State{}, false, fmt.Errorf("unsupported state version %d", state.Version)
	}
	return state, true, nil
}
