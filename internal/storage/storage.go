package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"focustrack/internal/models"
)

// Storage persists the tracker state as a single JSON file in the data
// directory. Reads tolerate a missing file so first launch starts from a
// zero state.
type Storage struct {
	dataDir string
}

// New creates the data directory if needed. An empty dataDir defaults to
// ~/.focustrack.
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(homeDir, ".focustrack")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) stateFile() string {
	return filepath.Join(s.dataDir, "state.json")
}

// Load reads the persisted tracker state. A missing file returns the zero
// state without error.
func (s *Storage) Load() (models.TrackerState, error) {
	data, err := os.ReadFile(s.stateFile())
	if err != nil {
		if os.IsNotExist(err) {
			return models.TrackerState{}, nil
		}
		return models.TrackerState{}, err
	}

	var state models.TrackerState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.TrackerState{}, fmt.Errorf("parse %s: %w", s.stateFile(), err)
	}

	return state, nil
}

// Save writes the full tracker state, replacing the previous snapshot.
func (s *Storage) Save(state models.TrackerState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.stateFile(), data, 0644)
}
