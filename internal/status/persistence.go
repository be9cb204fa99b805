// Package status provides the sync state type and its persistence.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_state_persistence.go -package=mocks -source=persistence.go StatePersistence

const (
	// StateFileName is the name of the sync state file
	StateFileName = "sync-state.json"
)

// StatePersistence defines the interface for sync state persistence
type StatePersistence interface {
	// SaveState saves the sync state to persistent storage
	SaveState(ctx context.Context, state *SyncState) error

	// LoadState loads the sync state from persistent storage.
	// Returns an empty SyncState if nothing has been saved yet (first run).
	LoadState(ctx context.Context) (*SyncState, error)
}

type fileStatePersistence struct {
	basePath string
}

// NewFileStatePersistence creates a file-based state persistence rooted at basePath
func NewFileStatePersistence(basePath string) StatePersistence {
	return &fileStatePersistence{
		basePath: basePath,
	}
}

// SaveState writes the state as JSON, replacing the previous file atomically
func (f *fileStatePersistence) SaveState(_ context.Context, state *SyncState) error {
	if err := os.MkdirAll(f.basePath, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	filePath := filepath.Join(f.basePath, StateFileName)
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename state file: %w", err)
	}
	return nil
}

// LoadState reads the state file. A missing file yields an empty state.
func (f *fileStatePersistence) LoadState(_ context.Context) (*SyncState, error) {
	filePath := filepath.Join(f.basePath, StateFileName)

	// #nosec G304 -- path is built from the configured data directory
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &SyncState{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync state: %w", err)
	}
	return &state, nil
}
