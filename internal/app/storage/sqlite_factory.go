package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
)

// SQLiteFactory creates components backed by an embedded SQLite database.
// Sync state is kept in a file next to the database.
type SQLiteFactory struct {
	path  string
	store store.Store
}

var _ Factory = (*SQLiteFactory)(nil)

// NewSQLiteFactory creates a new SQLite storage factory
func NewSQLiteFactory(cfg *config.Config) (*SQLiteFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	path := cfg.GetSQLitePath()
	slog.Info("Creating SQLite storage factory", "path", path)
	return &SQLiteFactory{path: path}, nil
}

// CreateStateService creates a file-based state service in the database directory
func (f *SQLiteFactory) CreateStateService(ctx context.Context) (state.StateService, error) {
	slog.Debug("Creating file-based state service")
	return newStateService(ctx, filepath.Dir(f.path))
}

// CreateStore opens the SQLite database and creates its tables
func (f *SQLiteFactory) CreateStore(ctx context.Context) (store.Store, error) {
	slog.Debug("Creating SQLite store")
	st, err := store.NewSQLiteStore(ctx, f.path)
	if err != nil {
		return nil, err
	}
	f.store = st
	return st, nil
}

// Cleanup closes the database
func (f *SQLiteFactory) Cleanup() {
	if f.store == nil {
		return
	}
	if err := f.store.Close(); err != nil {
		slog.Warn("Failed to close SQLite store", "error", err)
	}
	f.store = nil
}
