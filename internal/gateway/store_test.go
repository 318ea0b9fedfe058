package gateway

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

func TestStorePutGet(t *testing.T) {
	t.Parallel()

	s := NewStore("smoking-pwa-v1", t.TempDir(), testLogger())

	_, ok := s.Get("/index.html")
	assert.False(t, ok)

	want := CachedResponse{Status: http.StatusOK, ContentType: "text/html", Body: []byte("<html>")}
	s.Put("/index.html", want)

	got, ok := s.Get("/index.html")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.Len())
}

func TestStorePersistRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewStore("smoking-pwa-v1", dir, testLogger())
	want := CachedResponse{Status: http.StatusOK, ContentType: "text/csv", Body: []byte("name\nA\n")}
	s.Put("/stores.csv", want)
	require.NoError(t, s.Persist())

	reopened := NewStore("smoking-pwa-v1", dir, testLogger())
	got, ok := reopened.Get("/stores.csv")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStorePruneStale(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Persist an old generation, then activate a new one.
	old := NewStore("smoking-pwa-v1", dir, testLogger())
	old.Put("/index.html", CachedResponse{Status: http.StatusOK})
	require.NoError(t, old.Persist())

	current := NewStore("smoking-pwa-v2", dir, testLogger())
	current.Put("/index.html", CachedResponse{Status: http.StatusOK})
	require.NoError(t, current.Persist())

	// An unrelated file must survive pruning.
	unrelated := filepath.Join(dir, "README.txt")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0o644))

	require.NoError(t, current.PruneStale())

	assert.NoFileExists(t, filepath.Join(dir, "smoking-pwa-v1"+cacheFileExt))
	assert.FileExists(t, filepath.Join(dir, "smoking-pwa-v2"+cacheFileExt))
	assert.FileExists(t, unrelated)
}

func TestStorePruneStaleMissingDir(t *testing.T) {
	t.Parallel()

	s := NewStore("smoking-pwa-v1", filepath.Join(t.TempDir(), "nope"), testLogger())
	assert.NoError(t, s.PruneStale())
}
