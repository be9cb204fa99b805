package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collectMetricNames(t *testing.T, reader *sdkmetric.ManualReader, scopeName string) []string {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var names []string
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != scopeName {
			continue
		}
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestNewMetrics_NilProvider(t *testing.T) {
	t.Parallel()

	syncMetrics, err := NewSyncMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, syncMetrics)

	readinessMetrics, err := NewReadinessMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, readinessMetrics)

	notificationMetrics, err := NewNotificationMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, notificationMetrics)

	httpMetrics, err := NewHTTPMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, httpMetrics)
}

func TestNilMetrics_AreNoOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var syncMetrics *SyncMetrics
	var readinessMetrics *ReadinessMetrics
	var notificationMetrics *NotificationMetrics

	assert.NotPanics(t, func() {
		syncMetrics.RecordSyncDuration(ctx, "manual", time.Second, true)
		syncMetrics.RecordSyncSkipped(ctx, "scheduled")
		syncMetrics.RecordLibraryItems(ctx, 1, 2)
		readinessMetrics.RecordStatusCounts(ctx, map[string]int{"ready": 1})
		notificationMetrics.RecordDelivery(ctx, "generic", "success", time.Millisecond)
	})
}

func TestSyncMetrics_Record(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewSyncMetrics(mp)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	metrics.RecordSyncDuration(ctx, "scheduled", 2500*time.Millisecond, true)
	metrics.RecordSyncSkipped(ctx, "manual")
	metrics.RecordLibraryItems(ctx, 10, 4)

	names := collectMetricNames(t, reader, SyncMetricsMeterName)
	assert.ElementsMatch(t, []string{
		"readiness_sync_duration_seconds",
		"readiness_sync_skipped_total",
		"readiness_library_items",
	}, names)
}

func TestReadinessMetrics_RecordStatusCounts(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewReadinessMetrics(mp)
	require.NoError(t, err)

	metrics.RecordStatusCounts(context.Background(), map[string]int{"ready": 3, "not-ready": 1})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	gauge, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, gauge.DataPoints, 2)
}

func TestNotificationMetrics_RecordDelivery(t *testing.T) {
	t.Parallel()

	mp, reader := newManualProvider(t)
	metrics, err := NewNotificationMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordDelivery(ctx, "discord", "success", 120*time.Millisecond)
	metrics.RecordDelivery(ctx, "discord", "failure", 10*time.Second)
	metrics.RecordDelivery(ctx, "generic", "success", 50*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != "readiness_webhook_deliveries_total" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		var total int64
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
		assert.Equal(t, int64(3), total)
		assert.Len(t, sum.DataPoints, 3)
		return
	}
	t.Fatal("deliveries counter not found")
}
