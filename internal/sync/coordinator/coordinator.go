package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/notify"
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/status"
	pkgsync "github.com/stacklok/media-readiness-server/internal/sync"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
	"github.com/stacklok/media-readiness-server/internal/telemetry"
)

// ErrShutdownTimeout is returned by Shutdown when a cycle is still running after the grace period
var ErrShutdownTimeout = errors.New("sync cycle did not finish before shutdown timeout")

// TriggerResult is the synchronous answer to a manual sync request
type TriggerResult struct {
	// Accepted is false when a cycle was already running
	Accepted bool `json:"accepted"`
	// State is the sync state right after the request was handled
	State status.SyncState `json:"state"`
}

//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks -source=coordinator.go Coordinator

// Coordinator manages background synchronization scheduling and execution
type Coordinator interface {
	// Start runs a startup cycle and then one cycle per interval.
	// Blocks until ctx is cancelled or Stop is called. Calling Start while it
	// is already running returns nil immediately.
	Start(ctx context.Context) error

	// Stop ends the ticker loop. It does not cancel a running cycle.
	Stop() error

	// TriggerManualSync starts a cycle unless one is running
	TriggerManualSync(ctx context.Context) TriggerResult

	// IsSyncing reports whether a cycle is in flight
	IsSyncing() bool

	// SyncState returns a copy of the current sync state
	SyncState() status.SyncState

	// WaitIdle blocks until no cycle is in flight or ctx is done
	WaitIdle(ctx context.Context) error

	// Shutdown stops the scheduler and waits up to timeout for a running cycle
	Shutdown(timeout time.Duration) error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	manager    pkgsync.Manager
	stateSvc   state.StateService
	snapshots  *library.Store
	engine     *readiness.Engine
	dispatcher notify.Dispatcher
	interval   time.Duration

	// Lifecycle management
	lifecycleMu sync.Mutex
	started     bool
	cancelFunc  context.CancelFunc
	done        chan struct{}

	// gateMu orders gate transitions with the state update and the idle signal,
	// so nobody observes the gate closed while the state still says idle
	gateMu  sync.Mutex
	syncing atomic.Bool
	idle    chan struct{}

	// Metrics
	syncMetrics      *telemetry.SyncMetrics
	readinessMetrics *telemetry.ReadinessMetrics
	tracer           trace.Tracer
	now              func() time.Time
}

// New creates a new coordinator with injected dependencies
func New(
	manager pkgsync.Manager,
	stateSvc state.StateService,
	snapshots *library.Store,
	engine *readiness.Engine,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
	opts ...Option,
) Coordinator {
	idle := make(chan struct{})
	close(idle)

	c := &defaultCoordinator{
		manager:    manager,
		stateSvc:   stateSvc,
		snapshots:  snapshots,
		engine:     engine,
		dispatcher: dispatcher,
		interval:   getSyncInterval(cfg),
		idle:       idle,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start begins background sync coordination
func (c *defaultCoordinator) Start(ctx context.Context) error {
	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		slog.Debug("Sync coordinator already running")
		return nil
	}
	coordCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.started = true
	c.cancelFunc = cancel
	c.done = done
	c.lifecycleMu.Unlock()

	defer func() {
		c.lifecycleMu.Lock()
		c.started = false
		c.cancelFunc = nil
		c.lifecycleMu.Unlock()
		close(done)
		slog.Info("Background sync coordinator shut down")
	}()

	slog.Info("Starting background sync coordinator", "interval", c.interval)

	// Shutdown may already be under way
	if coordCtx.Err() != nil {
		return nil
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.triggerScheduled(coordCtx, status.SyncTriggerStartup)

	for {
		select {
		case <-ticker.C:
			c.triggerScheduled(coordCtx, status.SyncTriggerScheduled)
		case <-coordCtx.Done():
			slog.Info("Sync coordinator stopping")
			return nil
		}
	}
}

// Stop gracefully stops the ticker loop
func (c *defaultCoordinator) Stop() error {
	c.lifecycleMu.Lock()
	cancel, done := c.cancelFunc, c.done
	c.lifecycleMu.Unlock()

	if cancel != nil {
		slog.Info("Stopping sync coordinator")
		cancel()
		// Wait for the loop to exit; a running cycle is not waited for
		<-done
	}
	return nil
}

// TriggerManualSync starts a cycle in the background unless one is running
func (c *defaultCoordinator) TriggerManualSync(ctx context.Context) TriggerResult {
	current, ok := c.beginCycle(ctx, status.SyncTriggerManual)
	if !ok {
		slog.Info("Manual sync rejected, a sync is already running",
			"started_at", current.LastSyncStartedAt,
			"trigger", current.Trigger)
		c.syncMetrics.RecordSyncSkipped(ctx, string(status.SyncTriggerManual))
		return TriggerResult{Accepted: false, State: current}
	}

	go c.runCycle(ctx, current)
	return TriggerResult{Accepted: true, State: current}
}

// IsSyncing reports whether a cycle is in flight
func (c *defaultCoordinator) IsSyncing() bool {
	return c.syncing.Load()
}

// SyncState returns a copy of the current sync state
func (c *defaultCoordinator) SyncState() status.SyncState {
	return c.stateSvc.GetSyncState()
}

// WaitIdle blocks until the running cycle (if any) has finished
func (c *defaultCoordinator) WaitIdle(ctx context.Context) error {
	c.gateMu.Lock()
	idle := c.idle
	c.gateMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops scheduling and drains the running cycle within timeout
func (c *defaultCoordinator) Shutdown(timeout time.Duration) error {
	if err := c.Stop(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.WaitIdle(ctx); err != nil {
		slog.Warn("Sync cycle still running at shutdown", "timeout", timeout)
		return fmt.Errorf("%w (waited %s)", ErrShutdownTimeout, timeout)
	}
	return nil
}

// triggerScheduled starts a ticker or startup cycle, dropping it when one is running
func (c *defaultCoordinator) triggerScheduled(ctx context.Context, trigger status.SyncTrigger) {
	current, ok := c.beginCycle(ctx, trigger)
	if !ok {
		slog.Debug("Skipping scheduled sync, a sync is already running",
			"trigger", trigger,
			"running_trigger", current.Trigger)
		c.syncMetrics.RecordSyncSkipped(ctx, string(trigger))
		return
	}
	go c.runCycle(ctx, current)
}
