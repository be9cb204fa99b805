package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/otel"
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/status"
)

// beginCycle closes the gate and moves the state to running.
// When the gate is already closed it returns the running state and false.
func (c *defaultCoordinator) beginCycle(ctx context.Context, trigger status.SyncTrigger) (status.SyncState, bool) {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()

	if !c.syncing.CompareAndSwap(false, true) {
		return c.stateSvc.GetSyncState(), false
	}
	c.idle = make(chan struct{})

	startedAt := c.now().UTC()
	var running status.SyncState
	if _, err := c.stateSvc.UpdateStateAtomically(ctx, func(s *status.SyncState) bool {
		s.Phase = status.SyncPhaseRunning
		s.Trigger = trigger
		s.LastSyncStartedAt = &startedAt
		running = *s
		return true
	}); err != nil {
		slog.Warn("Failed to persist running sync state", "error", err)
	}
	return running, true
}

// endCycle opens the gate and wakes WaitIdle callers
func (c *defaultCoordinator) endCycle() {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()
	c.syncing.Store(false)
	close(c.idle)
}

// runCycle executes one sync cycle. The gate must be held by the caller's beginCycle.
func (c *defaultCoordinator) runCycle(parent context.Context, started status.SyncState) {
	// In-flight cycles are never cancelled by the caller
	ctx := context.WithoutCancel(parent)
	trigger := started.Trigger
	startTime := time.Now()

	ctx, span := otel.StartSpan(ctx, c.tracer, "sync.cycle",
		trace.WithAttributes(otel.AttrSyncTrigger.String(string(trigger))))
	defer span.End()

	// Always record a final state and release the gate, even if the cycle panics.
	// The default covers an unexpected exit.
	final := started
	final.Phase = status.SyncPhaseFailed
	final.LastError = "Unexpected failure during sync cycle"
	success := false
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Sync cycle panicked", "trigger", trigger, "panic", r)
			final.Phase = status.SyncPhaseFailed
			final.LastError = fmt.Sprintf("Sync cycle panicked: %v", r)
			success = false
			otel.RecordError(span, fmt.Errorf("panic: %v", r))
		}
		if err := c.stateSvc.UpdateSyncState(ctx, final); err != nil {
			slog.Error("Error updating sync state", "error", err)
		}
		c.syncMetrics.RecordSyncDuration(ctx, string(trigger), time.Since(startTime), success)
		c.endCycle()
	}()

	slog.Info("Starting sync cycle", "trigger", trigger)

	result, syncErr := c.manager.PerformSync(ctx)
	if syncErr != nil {
		final.LastError = syncErr.Message
		otel.RecordError(span, syncErr)
		slog.Error("Sync failed, keeping previous snapshot",
			"trigger", trigger,
			"reason", syncErr.Reason,
			"error", syncErr.Message,
			"snapshot_version", c.snapshots.Current().Version)
		return
	}

	previous := c.snapshots.Current()
	if previous.Version > 0 && previous.Hash == result.Hash {
		slog.Debug("Library content unchanged since last sync", "hash", shortHash(result.Hash))
	}

	published := c.snapshots.Publish(result.Snapshot)
	span.SetAttributes(
		otel.AttrSnapshotVersion.Int64(int64(published.Version)), //nolint:gosec // versions stay far below MaxInt64
		otel.AttrItemCount.Int(published.ItemCount()),
	)
	c.syncMetrics.RecordLibraryItems(ctx, result.SeriesCount, result.MovieCount)

	verdicts := c.engine.EvaluateSnapshot(published)
	c.recordStatusCounts(ctx, verdicts)

	summary := c.dispatcher.Dispatch(ctx, verdicts)

	completedAt := c.now().UTC()
	final.Phase = status.SyncPhaseIdle
	final.LastError = ""
	final.LastSyncCompletedAt = &completedAt
	final.SnapshotVersion = published.Version
	final.SnapshotHash = published.Hash
	final.SeriesCount = result.SeriesCount
	final.MovieCount = result.MovieCount
	success = true

	slog.Info("Sync cycle completed",
		"trigger", trigger,
		"snapshot_version", published.Version,
		"series", result.SeriesCount,
		"movies", result.MovieCount,
		"hash", shortHash(published.Hash),
		"transitions", summary.Transitions,
		"deliveries", summary.Deliveries(),
		"duration", time.Since(startTime))
}

func (c *defaultCoordinator) recordStatusCounts(ctx context.Context, verdicts []readiness.Verdict) {
	counts := make(map[string]int, 3)
	for s, n := range readiness.CountByStatus(verdicts) {
		counts[string(s)] = n
	}
	c.readinessMetrics.RecordStatusCounts(ctx, counts)
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
