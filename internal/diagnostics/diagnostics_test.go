package diagnostics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorOrdersByFileThenLine(t *testing.T) {
	c := NewCollector()
	c.Warnf("unused-import", "b.py", 5, "dropped import os")
	c.Warnf("unused-import", "a.py", 9, "dropped import sys")
	c.Warnf("unused-import", "a.py", 2, "dropped import re")

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a.py", items[0].File)
	assert.Equal(t, 2, items[0].Line)
	assert.Equal(t, "a.py", items[1].File)
	assert.Equal(t, 9, items[1].Line)
	assert.Equal(t, "b.py", items[2].File)
}

func TestHasErrorsDetectsErrorSeverity(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())
	c.Errorf("unresolvable-cycle", "a.py", 1, "cycle between a and b")
	assert.True(t, c.HasErrors())
}

func TestWriteSARIFProducesFile(t *testing.T) {
	c := NewCollector()
	c.Warnf("unused-import", "a.py", 1, "dropped import os")
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, c.WriteSARIF(path))
}
