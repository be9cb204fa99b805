package app

import (
	"github.com/stacklok/media-readiness-server/internal/library"
	"github.com/stacklok/media-readiness-server/internal/notify"
	"github.com/stacklok/media-readiness-server/internal/store"
	"github.com/stacklok/media-readiness-server/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// SyncCoordinator manages background synchronization
	SyncCoordinator coordinator.Coordinator

	// Snapshots holds the published library snapshot
	Snapshots *library.Store

	// Dispatcher turns verdict transitions into webhook deliveries
	Dispatcher notify.Dispatcher

	// Store persists webhooks and dismissed items
	Store store.Store
}
