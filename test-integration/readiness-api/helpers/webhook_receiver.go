package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ReceivedEvent is a generic webhook payload as seen by the receiver
type ReceivedEvent struct {
	Event           string  `json:"event"`
	ItemID          string  `json:"itemId"`
	ItemKind        string  `json:"itemKind"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	ProgressPercent float64 `json:"progressPercent"`
	Timestamp       string  `json:"timestamp"`
}

// WebhookReceiver records generic webhook deliveries
type WebhookReceiver struct {
	server *httptest.Server

	mu     sync.Mutex
	events []ReceivedEvent
	status int
}

// NewWebhookReceiver starts a receiver answering 204
func NewWebhookReceiver() *WebhookReceiver {
	r := &WebhookReceiver{status: http.StatusNoContent}
	r.server = httptest.NewServer(http.HandlerFunc(r.handle))
	return r
}

func (r *WebhookReceiver) handle(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var event ReceivedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.mu.Lock()
	r.events = append(r.events, event)
	status := r.status
	r.mu.Unlock()

	w.WriteHeader(status)
}

// URL returns the receiver endpoint
func (r *WebhookReceiver) URL() string {
	return r.server.URL + "/hook"
}

// SetStatus changes the status code returned to the server
func (r *WebhookReceiver) SetStatus(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = code
}

// Events returns a copy of everything received so far
func (r *WebhookReceiver) Events() []ReceivedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReceivedEvent(nil), r.events...)
}

// Close shuts the receiver down
func (r *WebhookReceiver) Close() {
	r.server.Close()
}
