package app

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"

	storagemocks "github.com/stacklok/media-readiness-server/internal/app/storage/mocks"
	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/store"
	syncmocks "github.com/stacklok/media-readiness-server/internal/sync/mocks"
)

// createValidTestConfig returns a config using file storage under dir
func createValidTestConfig(dir string) *config.Config {
	return &config.Config{
		MediaServer: config.MediaServerConfig{
			Type: config.MediaServerTypeFile,
			File: &config.FileConfig{Path: filepath.Join(dir, "library.json")},
		},
		SyncPolicy: &config.SyncPolicyConfig{Interval: "30m"},
		Storage: &config.StorageConfig{
			Type: config.StorageTypeFile,
			File: &config.FileStorageConfig{BaseDir: filepath.Join(dir, "data")},
		},
	}
}

func TestBaseConfigDefaults(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithConfig(createValidTestConfig(t.TempDir())))
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, defaultHTTPAddress, built.address)
	assert.Equal(t, defaultRequestTimeout, built.requestTimeout)
	assert.Nil(t, built.middlewares)
}

func TestBaseConfigRequiresConfig(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithAddress(":9090"))
	require.Error(t, err)
	assert.Nil(t, built)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "port only", address: ":9090"},
		{name: "localhost", address: "localhost:8080"},
		{name: "ipv4", address: "127.0.0.1:0"},
		{name: "ipv6", address: "[::1]:8080"},
		{name: "empty", address: "", wantErr: true},
		{name: "missing port", address: ":", wantErr: true},
		{name: "no colon", address: "8080", wantErr: true},
		{name: "port out of range", address: ":99999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			built, err := baseConfig(
				WithConfig(createValidTestConfig(t.TempDir())),
				WithAddress(tt.address),
			)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, built)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.address, built.address)
		})
	}
}

func TestNewReadinessApp(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	app, err := NewReadinessApp(context.Background(),
		WithConfig(createValidTestConfig(t.TempDir())),
		WithAddress("127.0.0.1:0"),
		WithSyncManager(syncmocks.NewMockManager(ctrl)),
		WithMeterProvider(noop.NewMeterProvider()),
		WithMetricsHandler(http.NotFoundHandler()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { app.cancelFunc() })

	components := app.GetComponents()
	require.NotNil(t, components)
	assert.NotNil(t, components.SyncCoordinator)
	assert.NotNil(t, components.Dispatcher)
	assert.NotNil(t, components.Store)
	assert.False(t, components.Snapshots.HasSnapshot())
	assert.Equal(t, "127.0.0.1:0", app.GetHTTPServer().Addr)
	assert.Equal(t, config.MediaServerTypeFile, app.GetConfig().MediaServer.Type)
}

func TestNewReadinessAppErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid threshold releases storage", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		cfg := createValidTestConfig(t.TempDir())
		threshold := 1.5
		cfg.Readiness = &config.ReadinessConfig{ThresholdAlmost: &threshold}

		factory := storagemocks.NewMockFactory(ctrl)
		factory.EXPECT().CreateStore(gomock.Any()).Return(nil, nil)
		factory.EXPECT().CreateStateService(gomock.Any()).Return(nil, nil)
		factory.EXPECT().Cleanup()

		_, err := NewReadinessApp(context.Background(), WithConfig(cfg), WithStorageFactory(factory))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create readiness engine")
	})

	t.Run("store creation failure releases storage", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)

		factory := storagemocks.NewMockFactory(ctrl)
		factory.EXPECT().CreateStore(gomock.Any()).Return(nil, errors.New("locked"))
		factory.EXPECT().Cleanup()

		_, err := NewReadinessApp(context.Background(),
			WithConfig(createValidTestConfig(t.TempDir())),
			WithStorageFactory(factory))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create store")
	})

	t.Run("unknown media server type", func(t *testing.T) {
		t.Parallel()
		cfg := createValidTestConfig(t.TempDir())
		cfg.MediaServer.Type = "plex"

		_, err := NewReadinessApp(context.Background(), WithConfig(cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported media server type")
	})

	t.Run("data directory already in use", func(t *testing.T) {
		t.Parallel()
		cfg := createValidTestConfig(t.TempDir())

		held, err := store.NewFileStore(cfg.GetFileStorageBaseDir())
		require.NoError(t, err)
		t.Cleanup(func() { _ = held.Close() })

		_, err = NewReadinessApp(context.Background(), WithConfig(cfg))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in use by another process")
	})
}
