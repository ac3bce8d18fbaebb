package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accented-ai/corpusql/internal/query"
)

func TestDefaultIsDocumentGranularityReadOnly(t *testing.T) {
	cfg := Default()
	assert.Equal(t, query.Document, cfg.QueryGranularity())
	assert.True(t, cfg.ReadOnly)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "index_root: /data/idx\ncorpus_name: moby\ngranularity: sentence\nwindow_size: 3\nsnippet_radius: 2\nread_only: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/idx", cfg.IndexRoot)
	assert.Equal(t, query.Sentence, cfg.QueryGranularity())
	assert.Equal(t, 3, cfg.WindowSize)
	assert.Equal(t, 2, cfg.SnippetRadius)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus_key: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}
