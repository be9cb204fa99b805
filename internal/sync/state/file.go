package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stacklok/media-readiness-server/internal/status"
)

type persistentStateService struct {
	persistence status.StatePersistence

	mu     sync.RWMutex
	cached status.SyncState
}

// NewStateService creates a state service backed by the given persistence
func NewStateService(persistence status.StatePersistence) StateService {
	return &persistentStateService{
		persistence: persistence,
		cached:      status.SyncState{Phase: status.SyncPhaseIdle},
	}
}

func (p *persistentStateService) Initialize(ctx context.Context) error {
	loaded, err := p.persistence.LoadState(ctx)
	if err != nil {
		slog.Warn("Failed to load sync state, starting with defaults", "error", err)
		loaded = &status.SyncState{}
	}

	switch {
	case loaded.Phase == "":
		slog.Info("No previous sync state found, initializing with defaults")
		loaded.Phase = status.SyncPhaseIdle
	case loaded.Phase == status.SyncPhaseRunning:
		// The process that wrote this state never finished its cycle.
		slog.Warn("Previous sync was interrupted, resetting state to failed")
		loaded.Phase = status.SyncPhaseFailed
		loaded.LastError = "previous sync was interrupted"
		if err := p.persistence.SaveState(ctx, loaded); err != nil {
			slog.Warn("Failed to persist corrected sync state", "error", err)
		}
	}

	if loaded.LastSyncCompletedAt != nil {
		slog.Info("Loaded sync state",
			"phase", loaded.Phase,
			"last_sync_completed_at", loaded.LastSyncCompletedAt.Format(time.RFC3339),
			"snapshot_version", loaded.SnapshotVersion,
			"series", loaded.SeriesCount,
			"movies", loaded.MovieCount)
	} else {
		slog.Info("Sync state loaded, no previous successful sync", "phase", loaded.Phase)
	}

	p.mu.Lock()
	p.cached = *loaded
	p.mu.Unlock()
	return nil
}

func (p *persistentStateService) GetSyncState() status.SyncState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cached
}

// UpdateSyncState updates the cache before persisting so readers always see the
// orchestrator's view, even when the disk write fails.
func (p *persistentStateService) UpdateSyncState(ctx context.Context, syncState status.SyncState) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cached = syncState
	if err := p.persistence.SaveState(ctx, &syncState); err != nil {
		return fmt.Errorf("failed to persist sync state: %w", err)
	}
	return nil
}

func (p *persistentStateService) UpdateStateAtomically(
	ctx context.Context,
	testAndUpdateFn func(syncState *status.SyncState) bool,
) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	working := p.cached
	if !testAndUpdateFn(&working) {
		return false, nil
	}
	p.cached = working
	if err := p.persistence.SaveState(ctx, &working); err != nil {
		return true, fmt.Errorf("failed to persist sync state: %w", err)
	}
	return true, nil
}
