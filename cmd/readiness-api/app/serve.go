package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	readinessapp "github.com/stacklok/media-readiness-server/internal/app"
	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the readiness API server",
	Long: `Start the readiness API server.

The server requires a configuration file (--config) that specifies:
- The media server to read the library from (Jellyfin or a JSON export file)
- The sync interval and readiness rules
- Where webhooks and dismissed items are stored

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

// telemetryShutdownTimeout bounds flushing spans and metrics on exit
const telemetryShutdownTimeout = 5 * time.Second

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		panic(fmt.Sprintf("failed to bind address flag: %v", err))
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		panic(fmt.Sprintf("failed to bind config flag: %v", err))
	}
	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		panic(fmt.Sprintf("failed to mark config flag as required: %v", err))
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := viper.GetString("address")
	configPath := viper.GetString("config")

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration",
		"path", configPath,
		"media_server", cfg.MediaServer.Type,
		"storage", cfg.GetStorageType())

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown telemetry", "error", err)
		}
	}()

	opts := []readinessapp.ReadinessAppOptions{
		readinessapp.WithConfig(cfg),
		readinessapp.WithAddress(address),
		readinessapp.WithMeterProvider(tel.MeterProvider()),
		readinessapp.WithTracerProvider(tel.TracerProvider()),
	}
	if h := tel.MetricsHandler(); h != nil {
		opts = append(opts, readinessapp.WithMetricsHandler(h))
	}

	app, err := readinessapp.NewReadinessApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	select {
	case err := <-errChan:
		// The server stopped on its own; still wait for a running cycle
		if stopErr := app.Stop(cfg.GetShutdownGracePeriod()); stopErr != nil {
			slog.Error("Shutdown after server failure was not clean", "error", stopErr)
		}
		return err
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	if err := app.Stop(cfg.GetShutdownGracePeriod()); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return <-errChan
}
