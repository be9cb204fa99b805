package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/media-readiness-server/internal/api"
	"github.com/stacklok/media-readiness-server/internal/library"
	notifymocks "github.com/stacklok/media-readiness-server/internal/notify/mocks"
	storemocks "github.com/stacklok/media-readiness-server/internal/store/mocks"
	"github.com/stacklok/media-readiness-server/internal/sync"
	syncmocks "github.com/stacklok/media-readiness-server/internal/sync/mocks"
	"github.com/stacklok/media-readiness-server/internal/sync/coordinator"
	coordmocks "github.com/stacklok/media-readiness-server/internal/sync/coordinator/mocks"
)

// freeAddress returns a loopback address that was free a moment ago
func freeAddress(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

// createTestApp builds a ReadinessApp around a mocked coordinator without touching storage
func createTestApp(t *testing.T, ctrl *gomock.Controller, coord coordinator.Coordinator) *ReadinessApp {
	t.Helper()

	components := &AppComponents{
		SyncCoordinator: coord,
		Snapshots:       library.NewStore(),
		Dispatcher:      notifymocks.NewMockDispatcher(ctrl),
		Store:           storemocks.NewMockStore(ctrl),
	}
	appCfg := &readinessAppConfig{
		config:         createValidTestConfig(t.TempDir()),
		address:        freeAddress(t),
		requestTimeout: time.Second,
		readTimeout:    time.Second,
		writeTimeout:   2 * time.Second,
		idleTimeout:    time.Second,
		middlewares:    []func(http.Handler) http.Handler{api.LoggingMiddleware},
	}

	server, err := buildHTTPServer(appCfg, components)
	require.NoError(t, err)

	appCtx, cancel := context.WithCancel(context.Background())
	return &ReadinessApp{
		config:     appCfg.config,
		components: components,
		httpServer: server,
		ctx:        appCtx,
		cancelFunc: cancel,
	}
}

// startApp runs Start in the background and waits until /health answers
func startApp(t *testing.T, app *ReadinessApp) <-chan error {
	t.Helper()
	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	url := fmt.Sprintf("http://%s/health", app.httpServer.Addr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:gosec // test URL
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	return errChan
}

func waitStopped(t *testing.T, errChan <-chan error) {
	t.Helper()
	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func TestReadinessApp_StartAndStop(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	coord := coordmocks.NewMockCoordinator(ctrl)
	started := make(chan struct{})
	coord.EXPECT().Start(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})
	coord.EXPECT().Shutdown(2 * time.Second).Return(nil)

	app := createTestApp(t, ctrl, coord)
	errChan := startApp(t, app)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("sync coordinator was not started")
	}

	require.NoError(t, app.Stop(2*time.Second))
	waitStopped(t, errChan)
}

func TestReadinessApp_StopReportsShutdownTimeout(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	coord := coordmocks.NewMockCoordinator(ctrl)
	coord.EXPECT().Start(gomock.Any()).Return(nil)
	coord.EXPECT().Shutdown(time.Second).
		Return(fmt.Errorf("%w (waited 1s)", coordinator.ErrShutdownTimeout))

	app := createTestApp(t, ctrl, coord)
	errChan := startApp(t, app)

	err := app.Stop(time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, coordinator.ErrShutdownTimeout)
	waitStopped(t, errChan)
}

func TestReadinessApp_StopWithoutStart(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	coord := coordmocks.NewMockCoordinator(ctrl)
	coord.EXPECT().Shutdown(time.Second).Return(nil)

	app := createTestApp(t, ctrl, coord)
	app.cancelFunc = nil

	require.NoError(t, app.Stop(time.Second))
}

func TestReadinessApp_EndToEnd(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	snapshot := &library.Snapshot{
		Series: []library.Series{{
			ID:      "series-a",
			Title:   "Show A",
			Seasons: []library.Season{{Number: 1, Episodes: []library.Episode{{ID: "e1", Available: true}}}},
		}},
		Movies: []library.Movie{{ID: "movie-m", Title: "Movie M"}},
	}
	manager := syncmocks.NewMockManager(ctrl)
	manager.EXPECT().PerformSync(gomock.Any()).Return(&sync.Result{
		Snapshot:    snapshot,
		Hash:        "hash",
		SeriesCount: 1,
		MovieCount:  1,
	}, nil).MinTimes(1)

	addr := freeAddress(t)
	app, err := NewReadinessApp(context.Background(),
		WithConfig(createValidTestConfig(t.TempDir())),
		WithAddress(addr),
		WithSyncManager(manager),
	)
	require.NoError(t, err)

	errChan := startApp(t, app)

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/readiness") //nolint:gosec // test URL
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, app.GetComponents().SyncCoordinator.WaitIdle(context.Background()))

	resp, err := http.Get("http://" + addr + "/api/v1/items") //nolint:gosec // test URL
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items struct {
		Items []struct {
			ItemID string `json:"itemId"`
			Status string `json:"status"`
		} `json:"items"`
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Equal(t, 2, items.Count)
	assert.Equal(t, "series-a", items.Items[0].ItemID)
	assert.Equal(t, "ready", items.Items[0].Status)
	assert.Equal(t, "movie-m", items.Items[1].ItemID)
	assert.Equal(t, "not-ready", items.Items[1].Status)

	require.NoError(t, app.Stop(5*time.Second))
	waitStopped(t, errChan)
}
