package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaleIsTrueForUnseenFile(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	stale, err := c.Stale("/src/a.py", "hash1")
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Store(Entry{AbsPath: "/src/a.py", ContentHash: "hash1", ModuleID: "pkg.a"}, 1000))

	entry, ok, err := c.Lookup("/src/a.py")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hash1", entry.ContentHash)
	assert.Equal(t, "pkg.a", entry.ModuleID)

	stale, err := c.Stale("/src/a.py", "hash1")
	require.NoError(t, err)
	assert.False(t, stale)

	stale, err = c.Stale("/src/a.py", "hash2")
	require.NoError(t, err)
	assert.True(t, stale)
}
