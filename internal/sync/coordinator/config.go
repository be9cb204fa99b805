package coordinator

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/telemetry"
)

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithInterval sets the time between scheduled cycles
func WithInterval(interval time.Duration) Option {
	return func(c *defaultCoordinator) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(c *defaultCoordinator) {
		c.syncMetrics = metrics
	}
}

// WithReadinessMetrics sets the readiness metrics for the coordinator
func WithReadinessMetrics(metrics *telemetry.ReadinessMetrics) Option {
	return func(c *defaultCoordinator) {
		c.readinessMetrics = metrics
	}
}

// WithTracer sets the tracer used for cycle spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *defaultCoordinator) {
		c.tracer = tracer
	}
}

// WithClock overrides the time source used for state timestamps
func WithClock(now func() time.Time) Option {
	return func(c *defaultCoordinator) {
		c.now = now
	}
}

// getSyncInterval returns the configured interval between cycles
func getSyncInterval(cfg *config.Config) time.Duration {
	if cfg == nil {
		return config.DefaultSyncInterval
	}
	return cfg.GetSyncInterval()
}
