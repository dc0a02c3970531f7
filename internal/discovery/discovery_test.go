package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
)

type stubParser struct{}

func (stubParser) Parse(path string, src []byte) (*astmodel.Module, error) {
	return &astmodel.Module{}, nil
}

func TestDiscoverFindsModulesAndCollapsesPackageInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "__init__.py"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "mod.py"), []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "test_mod.py"), []byte("x = 1"), 0o644))

	set, err := Discover(context.Background(), Options{
		SourceRoots:     []string{dir},
		ExcludePatterns: []string{"**/test_*.py"},
		Parser:          stubParser{},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	pkgMod, ok := set.Get("pkg")
	require.True(t, ok)
	assert.True(t, pkgMod.IsPackageInit)

	sub, ok := set.Get("pkg.mod")
	require.True(t, ok)
	assert.False(t, sub.IsPackageInit)
}

func TestRootClassifierDistinguishesFirstPartyFromThirdParty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.py"), []byte(""), 0o644))

	c := &RootClassifier{Roots: []string{dir}, Stdlib: map[string]bool{"os": true}}
	assert.Equal(t, FirstParty, c.Classify("util"))
	assert.Equal(t, StandardLibrary, c.Classify("os"))
	assert.Equal(t, ThirdParty, c.Classify("requests"))
}
