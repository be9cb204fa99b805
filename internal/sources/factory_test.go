package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/media-readiness-server/internal/config"
)

func TestNewLibrarySource(t *testing.T) {
	t.Setenv("READINESS_JELLYFIN_API_KEY", "env-key")

	tests := []struct {
		name          string
		cfg           *config.Config
		expectedType  any
		errorContains string
	}{
		{
			name: "jellyfin source",
			cfg: &config.Config{MediaServer: config.MediaServerConfig{
				Type:     config.MediaServerTypeJellyfin,
				Jellyfin: &config.JellyfinConfig{URL: "http://jellyfin:8096"},
			}},
			expectedType: &JellyfinSource{},
		},
		{
			name: "file source",
			cfg: &config.Config{MediaServer: config.MediaServerConfig{
				Type: config.MediaServerTypeFile,
				File: &config.FileConfig{Path: "testdata/library.json"},
			}},
			expectedType: &FileSource{},
		},
		{
			name:          "jellyfin without section",
			cfg:           &config.Config{MediaServer: config.MediaServerConfig{Type: config.MediaServerTypeJellyfin}},
			errorContains: "jellyfin configuration is required",
		},
		{
			name: "file with empty path",
			cfg: &config.Config{MediaServer: config.MediaServerConfig{
				Type: config.MediaServerTypeFile,
				File: &config.FileConfig{},
			}},
			errorContains: "invalid file source",
		},
		{
			name:          "unsupported type",
			cfg:           &config.Config{MediaServer: config.MediaServerConfig{Type: "plex"}},
			errorContains: "unsupported media server type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := NewLibrarySource(tt.cfg, testClient(), nil)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.expectedType, source)
		})
	}
}
