package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
)

// FileFactory creates file-based storage components.
// All components created by this factory use the local filesystem for persistence.
type FileFactory struct {
	baseDir string
	store   store.Store
}

var _ Factory = (*FileFactory)(nil)

// NewFileFactory creates a new file-based storage factory,
// ensuring the data directory exists.
func NewFileFactory(cfg *config.Config) (*FileFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	baseDir := cfg.GetFileStorageBaseDir()
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", baseDir, err)
	}

	slog.Info("Creating file-based storage factory", "base_dir", baseDir)
	return &FileFactory{baseDir: baseDir}, nil
}

// CreateStateService creates a file-based state service for sync status tracking
func (f *FileFactory) CreateStateService(ctx context.Context) (state.StateService, error) {
	slog.Debug("Creating file-based state service")
	return newStateService(ctx, f.baseDir)
}

// CreateStore opens the JSON file store, locking the data directory
func (f *FileFactory) CreateStore(_ context.Context) (store.Store, error) {
	slog.Debug("Creating file-based store")
	st, err := store.NewFileStore(f.baseDir)
	if err != nil {
		return nil, err
	}
	f.store = st
	return st, nil
}

// Cleanup releases the data directory lock
func (f *FileFactory) Cleanup() {
	if f.store == nil {
		return
	}
	if err := f.store.Close(); err != nil {
		slog.Warn("Failed to close file store", "error", err)
	}
	f.store = nil
}
