package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/media-readiness-server/internal/api"
	"github.com/stacklok/media-readiness-server/internal/library"
	notifymocks "github.com/stacklok/media-readiness-server/internal/notify/mocks"
	"github.com/stacklok/media-readiness-server/internal/status"
	storemocks "github.com/stacklok/media-readiness-server/internal/store/mocks"
	coordmocks "github.com/stacklok/media-readiness-server/internal/sync/coordinator/mocks"
)

type serverMocks struct {
	coordinator *coordmocks.MockCoordinator
	dispatcher  *notifymocks.MockDispatcher
	store       *storemocks.MockStore
}

func newServer(t *testing.T, opts ...api.ServerOption) (http.Handler, *serverMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &serverMocks{
		coordinator: coordmocks.NewMockCoordinator(ctrl),
		dispatcher:  notifymocks.NewMockDispatcher(ctrl),
		store:       storemocks.NewMockStore(ctrl),
	}
	return api.NewServer(m.coordinator, library.NewStore(), m.dispatcher, m.store, opts...), m
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessBeforeFirstSync(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)

	req, err := http.NewRequest(http.MethodGet, "/readiness", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()
	server, _ := newServer(t)

	req, err := http.NewRequest(http.MethodGet, "/version", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Contains(t, response, "version")
	assert.Contains(t, response, "commit")
	assert.Contains(t, response, "build_date")
	assert.Contains(t, response, "go_version")
	assert.Contains(t, response, "platform")
}

func TestAPIv1Mounted(t *testing.T) {
	t.Parallel()
	server, m := newServer(t)
	m.coordinator.EXPECT().SyncState().Return(status.SyncState{Phase: status.SyncPhaseIdle})

	req, err := http.NewRequest(http.MethodGet, "/api/v1/sync", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"phase":"idle","seriesCount":0,"movieCount":0}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []api.ServerOption
		wantStatus int
	}{
		{
			name:       "not mounted without handler",
			wantStatus: http.StatusNotFound,
		},
		{
			name: "served by configured handler",
			opts: []api.ServerOption{api.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("# HELP up\n"))
			}))},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server, _ := newServer(t, tt.opts...)

			req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestMiddlewaresApplied(t *testing.T) {
	t.Parallel()

	var sawRequestID string
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawRequestID = middleware.GetReqID(r.Context())
			next.ServeHTTP(w, r)
		})
	}
	server, _ := newServer(t, api.WithMiddlewares(middleware.RequestID, capture, api.LoggingMiddleware))

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, sawRequestID)
}
