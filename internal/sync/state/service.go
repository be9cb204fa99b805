// Package state holds the orchestrator's sync state in memory and keeps it persisted.
package state

import (
	"context"

	"github.com/stacklok/media-readiness-server/internal/status"
)

// StateService provides access to the sync state of the server.
//
//go:generate mockgen -destination=mocks/mock_state_service.go -package=mocks github.com/stacklok/media-readiness-server/internal/sync/state StateService
//
//nolint:revive // This name is fine
type StateService interface {
	// Initialize loads the persisted state. It is intended to be called once at
	// application startup; a state left in the running phase by an interrupted
	// process is reset to failed.
	Initialize(ctx context.Context) error
	// GetSyncState returns a copy of the current state.
	GetSyncState() status.SyncState
	// UpdateSyncState replaces the current state.
	UpdateSyncState(ctx context.Context, syncState status.SyncState) error
	// UpdateStateAtomically applies testAndUpdateFn to the current state and stores
	// the result if the function reports a modification, all under one lock.
	// It returns whether the state was modified.
	UpdateStateAtomically(
		ctx context.Context,
		testAndUpdateFn func(syncState *status.SyncState) bool,
	) (bool, error)
}
