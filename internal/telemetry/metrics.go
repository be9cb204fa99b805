package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the meter used for sync cycle metrics
	SyncMetricsMeterName = "github.com/stacklok/media-readiness-server/sync"

	// ReadinessMetricsMeterName is the meter used for readiness evaluation metrics
	ReadinessMetricsMeterName = "github.com/stacklok/media-readiness-server/readiness"

	// NotificationMetricsMeterName is the meter used for webhook delivery metrics
	NotificationMetricsMeterName = "github.com/stacklok/media-readiness-server/notify"
)

// SyncMetrics holds the OpenTelemetry instruments for sync cycles
type SyncMetrics struct {
	syncDuration metric.Float64Histogram
	syncSkipped  metric.Int64Counter
	libraryItems metric.Int64Gauge
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	syncDuration, err := meter.Float64Histogram(
		"readiness_sync_duration_seconds",
		metric.WithDescription("Duration of sync cycles in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	syncSkipped, err := meter.Int64Counter(
		"readiness_sync_skipped_total",
		metric.WithDescription("Sync triggers dropped because a cycle was already running"),
		metric.WithUnit("{trigger}"),
	)
	if err != nil {
		return nil, err
	}

	libraryItems, err := meter.Int64Gauge(
		"readiness_library_items",
		metric.WithDescription("Number of items in the published library snapshot"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		syncDuration: syncDuration,
		syncSkipped:  syncSkipped,
		libraryItems: libraryItems,
	}, nil
}

// RecordSyncDuration records the duration of a sync cycle
func (m *SyncMetrics) RecordSyncDuration(ctx context.Context, trigger string, duration time.Duration, success bool) {
	if m == nil || m.syncDuration == nil {
		return
	}

	m.syncDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.Bool("success", success),
	))
}

// RecordSyncSkipped counts a trigger that lost the single-flight gate
func (m *SyncMetrics) RecordSyncSkipped(ctx context.Context, trigger string) {
	if m == nil || m.syncSkipped == nil {
		return
	}
	m.syncSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("trigger", trigger)))
}

// RecordLibraryItems records the series and movie counts of the published snapshot
func (m *SyncMetrics) RecordLibraryItems(ctx context.Context, series, movies int) {
	if m == nil || m.libraryItems == nil {
		return
	}
	m.libraryItems.Record(ctx, int64(series), metric.WithAttributes(attribute.String("kind", "series")))
	m.libraryItems.Record(ctx, int64(movies), metric.WithAttributes(attribute.String("kind", "movie")))
}

// ReadinessMetrics holds the OpenTelemetry instruments for readiness evaluation
type ReadinessMetrics struct {
	itemsByStatus metric.Int64Gauge
}

// NewReadinessMetrics creates a new ReadinessMetrics instance.
// If provider is nil, it returns nil (no-op metrics).
func NewReadinessMetrics(provider metric.MeterProvider) (*ReadinessMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	itemsByStatus, err := provider.Meter(ReadinessMetricsMeterName).Int64Gauge(
		"readiness_items",
		metric.WithDescription("Number of items per readiness status after the last evaluation"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	return &ReadinessMetrics{itemsByStatus: itemsByStatus}, nil
}

// RecordStatusCounts records one gauge value per readiness status
func (m *ReadinessMetrics) RecordStatusCounts(ctx context.Context, counts map[string]int) {
	if m == nil || m.itemsByStatus == nil {
		return
	}
	for status, count := range counts {
		m.itemsByStatus.Record(ctx, int64(count), metric.WithAttributes(attribute.String("status", status)))
	}
}

// NotificationMetrics holds the OpenTelemetry instruments for webhook delivery
type NotificationMetrics struct {
	deliveries       metric.Int64Counter
	deliveryDuration metric.Float64Histogram
}

// NewNotificationMetrics creates a new NotificationMetrics instance.
// If provider is nil, it returns nil (no-op metrics).
func NewNotificationMetrics(provider metric.MeterProvider) (*NotificationMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(NotificationMetricsMeterName)

	deliveries, err := meter.Int64Counter(
		"readiness_webhook_deliveries_total",
		metric.WithDescription("Webhook deliveries by webhook type and outcome"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	deliveryDuration, err := meter.Float64Histogram(
		"readiness_webhook_delivery_duration_seconds",
		metric.WithDescription("Duration of webhook deliveries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	return &NotificationMetrics{
		deliveries:       deliveries,
		deliveryDuration: deliveryDuration,
	}, nil
}

// RecordDelivery records one delivery attempt. outcome is "success" or "failure".
func (m *NotificationMetrics) RecordDelivery(ctx context.Context, webhookType, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("type", webhookType),
		attribute.String("outcome", outcome),
	)
	m.deliveries.Add(ctx, 1, attrs)
	m.deliveryDuration.Record(ctx, duration.Seconds(), attrs)
}
