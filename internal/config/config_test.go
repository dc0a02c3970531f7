package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weld.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: app.main\npreserve_comments: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app.main", cfg.Entry)
	assert.True(t, cfg.PreserveComments)
	assert.Equal(t, "latest", cfg.LanguageVersion)
	assert.Equal(t, []string{"."}, cfg.SourceRoots)
}

func TestLoadRequiresEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weld.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language_version: \"3.11\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
