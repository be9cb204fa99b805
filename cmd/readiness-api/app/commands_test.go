package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/media-readiness-server/internal/versions"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				t.Helper()
				var info versions.VersionInfo
				require.NoError(t, json.Unmarshal([]byte(out), &info))
				assert.Equal(t, versions.GetVersionInfo(), info)
			},
		},
		{
			name: "text",
			check: func(t *testing.T, out string) {
				t.Helper()
				assert.Contains(t, out, "readiness-api "+versions.GetVersionInfo().Version)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := &cobra.Command{Use: "version", RunE: versionCmd.RunE}
			cmd.Flags().String("format", "", "")
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"--format", tt.format})

			require.NoError(t, cmd.Execute())
			tt.check(t, out.String())
		})
	}
}
