package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultMetricsInterval is the default interval for OTLP metric export
const DefaultMetricsInterval = 60 * time.Second

// MeterProvider bundles a meter provider with the optional Prometheus scrape handler
type MeterProvider struct {
	metric.MeterProvider

	// Handler serves the Prometheus exposition format; nil unless Prometheus is enabled
	Handler http.Handler
}

// NewMeterProvider creates a new OpenTelemetry MeterProvider based on the configuration.
// Returns a no-op provider if metrics are disabled or configuration is nil.
// When Prometheus is enabled metrics are pulled from Handler instead of pushed over OTLP.
func NewMeterProvider(ctx context.Context, opts ...ProviderOption) (*MeterProvider, error) {
	cfg := newProviderConfig(opts...)

	if cfg.metricsConfig == nil || !cfg.metricsConfig.Enabled {
		slog.Info("Metrics disabled, using no-op meter provider")
		return &MeterProvider{MeterProvider: noop.NewMeterProvider()}, nil
	}

	res, err := cfg.newResource(ctx)
	if err != nil {
		return nil, err
	}

	var (
		reader  sdkmetric.Reader
		handler http.Handler
	)
	if cfg.metricsConfig.Prometheus {
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		reader = exporter
		handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		slog.Info("Metrics initialized", "exporter", "prometheus")
	} else {
		exporter, err := createOTLPMetricsExporter(ctx, cfg.endpoint, cfg.insecure)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricsInterval))
		slog.Info("Metrics initialized",
			"exporter", "otlp",
			"endpoint", cfg.endpoint,
			"insecure", cfg.insecure)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp)

	return &MeterProvider{MeterProvider: mp, Handler: handler}, nil
}

func createOTLPMetricsExporter(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Exporter, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
	}
	if insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	return exporter, nil
}
