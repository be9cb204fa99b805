// Package app provides application lifecycle management for the readiness server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stacklok/media-readiness-server/internal/config"
)

// ReadinessApp encapsulates all components needed to run the readiness API server.
// It provides lifecycle management and graceful shutdown capabilities.
type ReadinessApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the background sync and the HTTP server.
// It blocks until the HTTP server stops or encounters an error.
func (app *ReadinessApp) Start() error {
	go func() {
		if err := app.components.SyncCoordinator.Start(app.ctx); err != nil {
			slog.Error("Sync coordinator failed", "error", err)
		}
	}()

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application.
// The scheduler stops first and a running cycle gets up to timeout to finish;
// the HTTP server is then shut down with the same timeout and storage is released.
// The returned error wraps coordinator.ErrShutdownTimeout when the cycle overran.
func (app *ReadinessApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...", "grace_period", timeout)

	var errs []error
	if err := app.components.SyncCoordinator.Shutdown(timeout); err != nil {
		slog.Error("Sync coordinator did not shut down cleanly", "error", err)
		errs = append(errs, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}

	// Cancelling the app context also releases storage
	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *ReadinessApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *ReadinessApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired application components
func (app *ReadinessApp) GetComponents() *AppComponents {
	return app.components
}
