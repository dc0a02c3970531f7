package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
	"weld/internal/classify"
	"weld/internal/graph"
	"weld/internal/module"
)

func TestResolveRenamesColliderDeterministically(t *testing.T) {
	g := graph.New("entry")
	a := module.NewModule("pkg.a", "a.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "run"},
	}}, "h", false)
	b := module.NewModule("pkg.b", "b.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "run"},
	}}, "h", false)
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{}, "h", false)
	g.AddModule(a)
	g.AddModule(b)
	g.AddModule(entry)

	strategies := map[module.ID]classify.Strategy{
		"pkg.a": classify.StrategyInline,
		"pkg.b": classify.StrategyInline,
		"entry": classify.StrategyInline,
	}
	order := []module.ID{"pkg.a", "pkg.b", "entry"}
	renames := Resolve(g, order, "entry", strategies, map[string]bool{"print": true})

	require.Contains(t, renames, module.ID("pkg.b"))
	assert.Equal(t, "__pkg_b_run", renames["pkg.b"]["run"])
	assert.NotContains(t, renames, module.ID("pkg.a"))
}

func TestResolveNeverRenamesEntryModuleNames(t *testing.T) {
	g := graph.New("entry")
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "main"},
	}}, "h", false)
	a := module.NewModule("pkg.a", "a.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "main"},
	}}, "h", false)
	g.AddModule(entry)
	g.AddModule(a)

	strategies := map[module.ID]classify.Strategy{"entry": classify.StrategyInline, "pkg.a": classify.StrategyInline}
	renames := Resolve(g, []module.ID{"pkg.a", "entry"}, "entry", strategies, nil)

	assert.NotContains(t, renames, module.ID("entry"))
	assert.Equal(t, "__pkg_a_main", renames["pkg.a"]["main"])
}

func TestApplyRewritesDeclarationAndReads(t *testing.T) {
	renames := Renames{"pkg.a": {"run": "__pkg_a_run"}}
	m := module.NewModule("pkg.a", "a.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "run"},
		&astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: "run"}}},
	}}, "h", false)

	out := Apply(renames, "pkg.a", m)
	fn := out.Body[0].(*astmodel.FunctionDef)
	assert.Equal(t, "__pkg_a_run", fn.Name)
	call := out.Body[1].(*astmodel.ExprStmt).Value.(*astmodel.Call)
	assert.Equal(t, "__pkg_a_run", call.Func.(*astmodel.Name).Id)
}
