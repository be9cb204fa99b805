package telemetry

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNew_Disabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "no config", opts: nil},
		{name: "disabled config", opts: []Option{WithTelemetryConfig(&Config{Enabled: false})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tel, err := New(context.Background(), tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, tel)

			assert.IsType(t, tracenoop.NewTracerProvider(), tel.TracerProvider())
			assert.IsType(t, noop.NewMeterProvider(), tel.MeterProvider())
			assert.Nil(t, tel.MetricsHandler())
			assert.NoError(t, tel.Shutdown(context.Background()))
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Tracing: &TracingConfig{Enabled: true, Sampling: 1.5},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid telemetry configuration")
}

//nolint:paralleltest // sets the global meter provider
func TestNew_PrometheusMetrics(t *testing.T) {
	tel, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Metrics: &MetricsConfig{Enabled: true, Prometheus: true},
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	syncMetrics, err := NewSyncMetrics(tel.MeterProvider())
	require.NoError(t, err)
	syncMetrics.RecordSyncSkipped(context.Background(), "manual")

	handler := tel.MetricsHandler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "readiness_sync_skipped_total")
}

func TestConfig_Getters(t *testing.T) {
	t.Parallel()

	empty := &Config{}
	assert.Equal(t, DefaultServiceName, empty.GetServiceName())
	assert.Equal(t, "unknown", empty.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, empty.GetEndpoint())
	assert.False(t, empty.GetInsecure())
	assert.InDelta(t, DefaultSampling, (&TracingConfig{}).GetSampling(), 1e-9)

	custom := &Config{ServiceName: "svc", ServiceVersion: "v1", Endpoint: "otel:4318", Insecure: true}
	assert.Equal(t, "svc", custom.GetServiceName())
	assert.Equal(t, "v1", custom.GetServiceVersion())
	assert.Equal(t, "otel:4318", custom.GetEndpoint())
	assert.True(t, custom.GetInsecure())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config", config: nil},
		{name: "disabled ignores bad sampling", config: &Config{Tracing: &TracingConfig{Enabled: true, Sampling: 5}}},
		{name: "valid sampling", config: &Config{Enabled: true, Tracing: &TracingConfig{Enabled: true, Sampling: 0.5}}},
		{name: "negative sampling", config: &Config{Enabled: true, Tracing: &TracingConfig{Enabled: true, Sampling: -0.1}}, wantErr: true},
		{name: "sampling not a number", config: &Config{Enabled: true, Tracing: &TracingConfig{Enabled: true, Sampling: math.NaN()}}, wantErr: true},
		{name: "metrics only", config: &Config{Enabled: true, Metrics: &MetricsConfig{Enabled: true}}},
		{name: "endpoint with scheme", config: &Config{Enabled: true, Endpoint: "http://otel:4318"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
