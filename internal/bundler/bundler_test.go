package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
	"weld/internal/config"
)

// lineParser is a minimal stand-in for a real source parser: each
// non-blank line `name = value` becomes an Assign, `import x` an Import,
// and `from x import y` a FromImport. It exists purely so this package's
// tests can exercise the pipeline without a real language front end.
type lineParser struct{}

func (lineParser) Parse(path string, src []byte) (*astmodel.Module, error) {
	var body []astmodel.Stmt
	for _, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "from "):
			parts := strings.Fields(line)
			body = append(body, &astmodel.FromImport{Module: parts[1], Names: []astmodel.ImportAlias{{Name: parts[3]}}})
		case strings.HasPrefix(line, "import "):
			parts := strings.Fields(line)
			body = append(body, &astmodel.Import{Names: []astmodel.ImportAlias{{Name: parts[1]}}})
		case strings.HasPrefix(line, "def "):
			name := strings.TrimSuffix(strings.TrimPrefix(line, "def "), "():")
			body = append(body, &astmodel.FunctionDef{Name: name, Body: []astmodel.Stmt{&astmodel.Pass{}}})
		case strings.Contains(line, "("):
			name := line[:strings.Index(line, "(")]
			body = append(body, &astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: name}}})
		}
	}
	return &astmodel.Module{Body: body}, nil
}

type stubPrinter struct{}

func (stubPrinter) Print(m *astmodel.Module) ([]byte, error) {
	var sb strings.Builder
	for _, s := range m.Body {
		fmt.Fprintf(&sb, "%T\n", s)
	}
	return []byte(sb.String()), nil
}

func TestSessionRunInlinesHelperIntoBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.py"), []byte("def greet():\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("from helper import greet\ngreet()\n"), 0o644))

	cfg := &config.Config{
		Entry:           "main",
		LanguageVersion: "latest",
		SourceRoots:     []string{dir},
	}
	sess := NewSession(cfg)
	result, err := sess.Run(context.Background(), lineParser{}, stubPrinter{})
	require.NoError(t, err)
	assert.Contains(t, string(result.Bundle), "FunctionDef")
	assert.False(t, sess.Diagnostics.HasErrors())
}

func TestSessionRunIsByteIdenticalAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper.py"), []byte("def greet():\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("from helper import greet\ngreet()\n"), 0o644))

	cfg := &config.Config{Entry: "main", LanguageVersion: "latest", SourceRoots: []string{dir}}
	first, err := NewSession(cfg).Run(context.Background(), lineParser{}, stubPrinter{})
	require.NoError(t, err)
	second, err := NewSession(cfg).Run(context.Background(), lineParser{}, stubPrinter{})
	require.NoError(t, err)
	assert.Equal(t, first.Bundle, second.Bundle)
}
