package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/onsi/gomega"

	v1 "github.com/stacklok/media-readiness-server/internal/api/v1"
	readinessapp "github.com/stacklok/media-readiness-server/internal/app"
	"github.com/stacklok/media-readiness-server/internal/config"
	"github.com/stacklok/media-readiness-server/internal/status"
	"github.com/stacklok/media-readiness-server/internal/store"
)

// ServerTestHelper manages the readiness server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	address    string
	baseURL    string
	httpClient *http.Client
	app        *readinessapp.ReadinessApp
}

// NewServerTestHelper creates a new server test helper listening on a free loopback port
func NewServerTestHelper(ctx context.Context, configPath string) (*ServerTestHelper, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to find a free port: %w", err)
	}
	address := listener.Addr().String()
	if err := listener.Close(); err != nil {
		return nil, fmt.Errorf("failed to release port: %w", err)
	}

	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		address:    address,
		baseURL:    "http://" + address,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// StartServer builds the application from the config file and starts it in the background
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := readinessapp.NewReadinessApp(s.ctx,
		readinessapp.WithConfig(cfg),
		readinessapp.WithAddress(s.address),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	s.app = app

	go func() {
		if err := app.Start(); err != nil {
			// The test fails when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()
	return nil
}

// StopServer gracefully stops the server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for /health to answer
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() (int, error) {
		return s.statusOf(http.MethodGet, "/health")
	}, timeout, 100*time.Millisecond).Should(gomega.Equal(http.StatusOK), "Server should be healthy")
}

// WaitForLibrarySynced waits for /readiness to report a published snapshot
func (s *ServerTestHelper) WaitForLibrarySynced(timeout time.Duration) {
	gomega.Eventually(func() (int, error) {
		return s.statusOf(http.MethodGet, "/readiness")
	}, timeout, 100*time.Millisecond).Should(gomega.Equal(http.StatusOK), "Library should be synced")
}

// WaitForSnapshotVersion waits until an idle cycle has published at least version
func (s *ServerTestHelper) WaitForSnapshotVersion(version uint64, timeout time.Duration) status.SyncState {
	var state status.SyncState
	gomega.Eventually(func(g gomega.Gomega) {
		state = s.GetSyncState()
		g.Expect(state.Phase).To(gomega.Equal(status.SyncPhaseIdle))
		g.Expect(state.SnapshotVersion).To(gomega.BeNumerically(">=", version))
	}, timeout, 100*time.Millisecond).Should(gomega.Succeed())
	return state
}

// GetSyncState returns the decoded /api/v1/sync response
func (s *ServerTestHelper) GetSyncState() status.SyncState {
	var state status.SyncState
	s.getJSON("/api/v1/sync", http.StatusOK, &state)
	return state
}

// TriggerSync posts /api/v1/sync and returns the status code
func (s *ServerTestHelper) TriggerSync() int {
	code, err := s.statusOf(http.MethodPost, "/api/v1/sync")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return code
}

// GetLibrarySummary returns the decoded /api/v1/library response
func (s *ServerTestHelper) GetLibrarySummary() v1.LibrarySummary {
	var summary v1.LibrarySummary
	s.getJSON("/api/v1/library", http.StatusOK, &summary)
	return summary
}

// GetItems returns the decoded /api/v1/items response for the given query
func (s *ServerTestHelper) GetItems(query string) v1.ItemListResponse {
	path := "/api/v1/items"
	if query != "" {
		path += "?" + query
	}
	var items v1.ItemListResponse
	s.getJSON(path, http.StatusOK, &items)
	return items
}

// GetItem returns one item and the response status code
func (s *ServerTestHelper) GetItem(id string) (v1.ItemResponse, int) {
	var item v1.ItemResponse
	code := s.doJSON(http.MethodGet, "/api/v1/items/"+id, nil, &item)
	return item, code
}

// CreateWebhook creates a webhook through the API
func (s *ServerTestHelper) CreateWebhook(req v1.WebhookRequest) store.Webhook {
	var created store.Webhook
	code := s.doJSON(http.MethodPost, "/api/v1/webhooks", req, &created)
	gomega.Expect(code).To(gomega.Equal(http.StatusCreated))
	return created
}

// TestWebhook triggers a test delivery
func (s *ServerTestHelper) TestWebhook(id string) (v1.WebhookTestResponse, int) {
	var resp v1.WebhookTestResponse
	code := s.doJSON(http.MethodPost, "/api/v1/webhooks/"+id+"/test", nil, &resp)
	return resp, code
}

// DismissItem dismisses an item through the API
func (s *ServerTestHelper) DismissItem(id string) {
	code := s.doJSON(http.MethodPut, "/api/v1/dismissed/"+id, nil, nil)
	gomega.Expect(code).To(gomega.Equal(http.StatusOK))
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

func (s *ServerTestHelper) statusOf(method, path string) (int, error) {
	req, err := http.NewRequestWithContext(s.ctx, method, s.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (s *ServerTestHelper) getJSON(path string, wantStatus int, out any) {
	code := s.doJSON(http.MethodGet, path, nil, out)
	gomega.Expect(code).To(gomega.Equal(wantStatus), "unexpected status for %s", path)
}

func (s *ServerTestHelper) doJSON(method, path string, body, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.baseURL+path, reader)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		gomega.Expect(json.Unmarshal(data, out)).To(gomega.Succeed(), string(data))
	}
	return resp.StatusCode
}
