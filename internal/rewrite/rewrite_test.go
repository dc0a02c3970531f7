package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
	"weld/internal/classify"
	"weld/internal/module"
)

func TestResolveRelativeSingleDotIsSiblingImport(t *testing.T) {
	id, err := ResolveRelative("pkg", 1, "sibling")
	require.NoError(t, err)
	assert.Equal(t, module.ID("pkg.sibling"), id)
}

func TestResolveRelativeClimbsPackages(t *testing.T) {
	id, err := ResolveRelative("pkg.sub.leaf", 2, "other")
	require.NoError(t, err)
	assert.Equal(t, module.ID("pkg.sub.other"), id)
}

func TestResolveRelativeOverflowIsError(t *testing.T) {
	_, err := ResolveRelative("pkg", 5, "other")
	assert.Error(t, err)
}

func TestRewriteDropsInlineFromImportAndSubstitutesReads(t *testing.T) {
	r := &Rewriter{
		Strategies: map[module.ID]classify.Strategy{"pkg.helpers": classify.StrategyInline},
		Renames:    nil,
	}
	body := []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.helpers", Names: []astmodel.ImportAlias{{Name: "util"}}},
		&astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: "util"}}},
	}
	out, needed := r.Rewrite("pkg.entry", body, "pkg")
	assert.Empty(t, needed)
	require.Len(t, out, 1)
	call := out[0].(*astmodel.ExprStmt).Value.(*astmodel.Call)
	assert.Equal(t, "util", call.Func.(*astmodel.Name).Id)
}

func TestRewriteRoutesWrapperImportThroughNamespace(t *testing.T) {
	r := &Rewriter{
		Strategies: map[module.ID]classify.Strategy{"pkg.cyclic": classify.StrategyWrapper},
	}
	body := []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.cyclic", Names: []astmodel.ImportAlias{{Name: "thing"}}},
		&astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: "thing"}}},
	}
	out, needed := r.Rewrite("pkg.entry", body, "pkg")
	require.Equal(t, []module.ID{"pkg.cyclic"}, needed)
	require.Len(t, out, 1)
	call := out[0].(*astmodel.ExprStmt).Value.(*astmodel.Call)
	attr := call.Func.(*astmodel.Attribute)
	assert.Equal(t, "thing", attr.Attr)
	assert.Equal(t, "__weld_ns_pkg_cyclic", attr.Value.(*astmodel.Name).Id)
}

func TestRewriteLeavesDependencyImportUntouched(t *testing.T) {
	r := &Rewriter{Strategies: map[module.ID]classify.Strategy{}}
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
	}
	out, needed := r.Rewrite("pkg.entry", body, "pkg")
	assert.Empty(t, needed)
	require.Len(t, out, 1)
	imp := out[0].(*astmodel.Import)
	assert.Equal(t, "os", imp.Names[0].Name)
}
