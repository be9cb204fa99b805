package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/media-readiness-server/internal/config"
)

func TestFileSource_FetchLibrary(t *testing.T) {
	t.Parallel()

	source := NewFileSource("testdata/library.json")
	require.NoError(t, source.Validate())
	assert.Equal(t, config.MediaServerTypeFile, source.Type())

	snap, err := source.FetchLibrary(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Series, 1)
	assert.Equal(t, "Show A", snap.Series[0].Title)
	require.Len(t, snap.Series[0].Seasons[0].Episodes, 3)
	assert.False(t, snap.Series[0].Seasons[0].Episodes[2].Available)
	require.Len(t, snap.Movies, 1)
	assert.Equal(t, "fre", snap.Movies[0].AudioStreams[0].Language)
	assert.Zero(t, snap.Version)
}

func TestParseLibraryExport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		data          string
		errorContains string
	}{
		{
			name: "empty library",
			data: `{"series":[],"movies":[]}`,
		},
		{
			name:          "empty data",
			data:          ``,
			errorContains: "data cannot be empty",
		},
		{
			name:          "invalid JSON",
			data:          `{"series":`,
			errorContains: "invalid JSON",
		},
		{
			name:          "missing movies",
			data:          `{"series":[]}`,
			errorContains: "schema validation",
		},
		{
			name:          "movie without id",
			data:          `{"series":[],"movies":[{"title":"x","available":true}]}`,
			errorContains: "schema validation",
		},
		{
			name:          "available is not a boolean",
			data:          `{"series":[],"movies":[{"id":"m","title":"x","available":"yes"}]}`,
			errorContains: "schema validation",
		},
		{
			name:          "episode without id",
			data:          `{"series":[{"id":"s","title":"S","seasons":[{"number":1,"episodes":[{"available":true}]}]}],"movies":[]}`,
			errorContains: "schema validation",
		},
		{
			name: "stamps from the export are dropped",
			data: `{"version":42,"hash":"x","series":[],"movies":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap, err := ParseLibraryExport([]byte(tt.data))
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Nil(t, snap)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Zero(t, snap.Version)
			assert.Empty(t, snap.Hash)
		})
	}
}

func TestFileSource_Errors(t *testing.T) {
	t.Parallel()

	assert.ErrorContains(t, NewFileSource("").Validate(), "file path cannot be empty")

	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).FetchLibrary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[]`), 0600))
	_, err = NewFileSource(bad).FetchLibrary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource("testdata/library.json").FetchLibrary(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
