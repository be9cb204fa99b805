package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/media-readiness-server/internal/api"
	"github.com/stacklok/media-readiness-server/internal/app/storage"
	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/httpclient"
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/notify"
	"github.com/stacklok/media-readiness-server/internal/readiness"
	"github.com/stacklok/media-readiness-server/internal/sources"
	"github.com/stacklok/media-readiness-server/internal/store"
	pkgsync "github.com/stacklok/media-readiness-server/internal/sync"
	"github.com/stacklok/media-readiness-server/internal/sync/coordinator"
	"github.com/stacklok/media-readiness-server/internal/sync/state"
	"github.com/stacklok/media-readiness-server/internal/telemetry"
	"github.com/stacklok/media-readiness-server/internal/versions"
)

const (
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second

	instrumentationName = "github.com/stacklok/media-readiness-server"
)

// ReadinessAppOptions is a function that configures the readiness app builder
type ReadinessAppOptions func(*readinessAppConfig) error

// readinessAppConfig collects everything NewReadinessApp needs.
// Component overrides are primarily for testing.
type readinessAppConfig struct {
	config *config.Config

	// Optional component overrides
	syncManager    pkgsync.Manager
	dispatcher     notify.Dispatcher
	storageFactory storage.Factory

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...ReadinessAppOptions) (*readinessAppConfig, error) {
	cfg := &readinessAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return cfg, nil
}

// NewReadinessApp wires storage, the readiness core and the HTTP server
func NewReadinessApp(
	ctx context.Context,
	opts ...ReadinessAppOptions,
) (*ReadinessApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			cfg.storageFactory.Cleanup()
		}
	}()

	st, err := cfg.storageFactory.CreateStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	stateService, err := cfg.storageFactory.CreateStateService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create state service: %w", err)
	}

	components, err := buildSyncComponents(cfg, st, stateService)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	httpServer, err := buildHTTPServer(cfg, components)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app, not in defer
	cleanupNeeded = false

	storageFactory := cfg.storageFactory
	cancelFunc := func() {
		storageFactory.Cleanup()
		cancel()
	}

	return &ReadinessApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("address is not a valid host:port: %w", err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(net.JoinHostPort(host, port)); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithSyncManager allows injecting a custom sync manager (for testing)
func WithSyncManager(sm pkgsync.Manager) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.syncManager = sm
		return nil
	}
}

// WithDispatcher allows injecting a custom notification dispatcher (for testing)
func WithDispatcher(d notify.Dispatcher) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.dispatcher = d
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for sync, readiness,
// notification and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider
func WithTracerProvider(tp trace.TracerProvider) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler serves the Prometheus scrape handler at /metrics
func WithMetricsHandler(h http.Handler) ReadinessAppOptions {
	return func(cfg *readinessAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

// tracer returns the app tracer, or nil when tracing is not configured
func (b *readinessAppConfig) tracer() trace.Tracer {
	if b.tracerProvider == nil {
		return nil
	}
	return b.tracerProvider.Tracer(instrumentationName)
}

// buildSyncComponents builds the source, sync manager, readiness engine,
// dispatcher and coordinator
func buildSyncComponents(
	b *readinessAppConfig,
	st store.Store,
	stateService state.StateService,
) (*AppComponents, error) {
	slog.Info("Initializing sync components")

	cfg := b.config
	tracer := b.tracer()

	engine, err := readiness.NewEngine(readiness.Config{
		ThresholdAlmost:   cfg.GetThresholdAlmost(),
		AudioLanguages:    cfg.GetAudioLanguages(),
		SubtitleLanguages: cfg.GetSubtitleLanguages(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readiness engine: %w", err)
	}

	if b.syncManager == nil {
		client := httpclient.NewClient(httpclient.WithTimeout(cfg.GetFetchTimeout()))
		source, err := sources.NewLibrarySource(cfg, client, tracer)
		if err != nil {
			return nil, fmt.Errorf("failed to create library source: %w", err)
		}
		b.syncManager = pkgsync.NewDefaultSyncManager(source, pkgsync.WithFetchTimeout(cfg.GetFetchTimeout()))
	}

	var coordOpts []coordinator.Option
	dispatcherOpts := []notify.Option{
		notify.WithDeliveryTimeout(cfg.GetDeliveryTimeout()),
		notify.WithMaxConcurrent(cfg.GetMaxConcurrentDeliveries()),
		notify.WithSeedOnFirstCycle(cfg.GetSeedOnFirstCycle()),
	}
	if tracer != nil {
		coordOpts = append(coordOpts, coordinator.WithTracer(tracer))
		dispatcherOpts = append(dispatcherOpts, notify.WithTracer(tracer))
	}

	if b.meterProvider != nil {
		syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		readinessMetrics, err := telemetry.NewReadinessMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create readiness metrics: %w", err)
		}
		notificationMetrics, err := telemetry.NewNotificationMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create notification metrics: %w", err)
		}
		coordOpts = append(coordOpts,
			coordinator.WithSyncMetrics(syncMetrics),
			coordinator.WithReadinessMetrics(readinessMetrics))
		dispatcherOpts = append(dispatcherOpts, notify.WithMetrics(notificationMetrics))
		slog.Info("Sync, readiness and notification metrics enabled")
	}

	if b.dispatcher == nil {
		client := httpclient.NewClient(httpclient.WithTimeout(cfg.GetDeliveryTimeout()))
		b.dispatcher = notify.NewDispatcher(st, client, dispatcherOpts...)
	}

	snapshots := library.NewStore()
	syncCoordinator := coordinator.New(
		b.syncManager,
		stateService,
		snapshots,
		engine,
		b.dispatcher,
		cfg,
		coordOpts...,
	)

	slog.Info("Sync components initialized successfully",
		"media_server", cfg.MediaServer.Type,
		"interval", cfg.GetSyncInterval(),
		"threshold_almost", engine.Threshold(),
		"user_agent", versions.UserAgent())

	return &AppComponents{
		SyncCoordinator: syncCoordinator,
		Snapshots:       snapshots,
		Dispatcher:      b.dispatcher,
		Store:           st,
	}, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	b *readinessAppConfig,
	components *AppComponents,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Metrics and tracing go first so they see every request
	var outer []func(http.Handler) http.Handler
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			outer = append(outer, metricsMiddleware)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	if b.tracerProvider != nil {
		outer = append(outer, telemetry.TracingMiddleware(b.tracerProvider))
	}
	middlewares := append(outer, b.middlewares...)

	serverOpts := []api.ServerOption{api.WithMiddlewares(middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}

	router := api.NewServer(
		components.SyncCoordinator,
		components.Snapshots,
		components.Dispatcher,
		components.Store,
		serverOpts...,
	)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
