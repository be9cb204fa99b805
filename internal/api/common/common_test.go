package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/media-readiness-server/internal/store"
)

func TestWriteStoreError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        fmt.Errorf("webhook abc: %w", store.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "webhook abc: not found",
		},
		{
			name:       "invalid",
			err:        fmt.Errorf("%w: webhook name is required", store.ErrInvalid),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid: webhook name is required",
		},
		{
			name:       "internal errors are not leaked",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to list webhooks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			WriteStoreError(rr, tt.err, "list webhooks")

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"hook"}`, want: "hook"},
		{name: "unknown field", body: `{"name":"hook","color":"red"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", maxRequestBodySize) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var got payload
			err := DecodeJSONBody(httptest.NewRecorder(), req, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid request body")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}
