package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleCommandInlinesHelperWithRealFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.py"), []byte("def greet(name):\n    return \"hi \" + name\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte(
		"from helper import greet\n\nprint(greet(\"weld\"))\n"), 0o644))
	cfgPath := filepath.Join(dir, "weld.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"entry: main\nlanguage_version: latest\nsource_roots:\n  - "+dir+"\n"), 0o644))

	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "bundle"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "def greet")
	assert.Contains(t, out.String(), "print(greet(\"weld\"))")
}

func TestGraphCommandReportsWrapperStrategyForModuleImportedHelper(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.py"), []byte("def greet():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("import helper\nhelper.greet()\n"), 0o644))
	cfgPath := filepath.Join(dir, "weld.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"entry: main\nlanguage_version: latest\nsource_roots:\n  - "+dir+"\n"), 0o644))

	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "graph"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "helper")
	assert.Contains(t, out.String(), "wrapper")
}
