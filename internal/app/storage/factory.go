// Package storage provides factory functions for creating storage-dependent components.
// A factory creates the sync state service and the webhook store for one backend
// so the two always agree on where data lives.
package storage

import (
	"context"
	"fmt"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/status"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
)

//go:generate mockgen -destination=mocks/mock_factory.go -package=mocks -source=factory.go Factory

// Factory creates storage-dependent components as a family.
//
// It also manages the lifecycle of storage resources (e.g., database connections).
type Factory interface {
	// CreateStateService creates a state service for sync status tracking.
	// Sync state is always kept in a file under the backend's state directory.
	CreateStateService(ctx context.Context) (state.StateService, error)

	// CreateStore creates the webhook and dismissal store for this backend
	CreateStore(ctx context.Context) (store.Store, error)

	// Cleanup releases any resources held by this factory.
	// Should be called when the application shuts down.
	Cleanup()
}

// NewStorageFactory creates a storage factory based on the configured storage type
func NewStorageFactory(ctx context.Context, cfg *config.Config) (Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.GetStorageType() {
	case config.StorageTypeDatabase:
		return NewDatabaseFactory(ctx, cfg)
	case config.StorageTypeSQLite:
		return NewSQLiteFactory(cfg)
	case config.StorageTypeFile:
		return NewFileFactory(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.GetStorageType())
	}
}

// newStateService creates a state service persisted under dir and loads the previous state
func newStateService(ctx context.Context, dir string) (state.StateService, error) {
	svc := state.NewStateService(status.NewFileStatePersistence(dir))
	if err := svc.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize sync state: %w", err)
	}
	return svc, nil
}
