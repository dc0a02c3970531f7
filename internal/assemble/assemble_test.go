package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
	"weld/internal/classify"
	"weld/internal/graph"
	"weld/internal/module"
	"weld/internal/resolver"
)

func TestAssembleInlinesHelperModuleBeforeEntry(t *testing.T) {
	g := graph.New("entry")
	helper := module.NewModule("pkg.helper", "helper.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "greet", Body: []astmodel.Stmt{&astmodel.Pass{}}},
	}}, "h1", false)
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.helper", Names: []astmodel.ImportAlias{{Name: "greet"}}},
		&astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: "greet"}}},
	}}, "h2", false)
	g.AddModule(helper)
	g.AddModule(entry)
	g.AddDependency("entry", "pkg.helper", graph.DependencyFromImport)

	strategies := map[module.ID]classify.Strategy{"pkg.helper": classify.StrategyInline, "entry": classify.StrategyInline}
	a := &Assembler{
		Graph:      g,
		Strategies: strategies,
		Renames:    resolver.Renames{},
		Order:      []module.ID{"pkg.helper", "entry"},
		Entry:      "entry",
	}
	out, err := a.Assemble()
	require.NoError(t, err)

	var sawFuncDef, sawCall bool
	for _, s := range out.Body {
		if fn, ok := s.(*astmodel.FunctionDef); ok && fn.Name == "greet" {
			sawFuncDef = true
		}
		if es, ok := s.(*astmodel.ExprStmt); ok {
			if call, ok := es.Value.(*astmodel.Call); ok {
				if nm, ok := call.Func.(*astmodel.Name); ok && nm.Id == "greet" {
					sawCall = true
				}
			}
		}
	}
	assert.True(t, sawFuncDef, "expected inlined greet function definition")
	assert.True(t, sawCall, "expected entry module's call to greet")
}

func TestAssembleHoistsStdlibAndThirdPartyImportsInSeparateSortedGroups(t *testing.T) {
	g := graph.New("entry")
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "sys"}}},
		&astmodel.FromImport{Module: "typing", Names: []astmodel.ImportAlias{{Name: "Dict"}}},
		&astmodel.FromImport{Module: "requests", Names: []astmodel.ImportAlias{{Name: "get"}}},
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
	}}, "h", false)
	g.AddModule(entry)

	a := &Assembler{
		Graph:      g,
		Strategies: map[module.ID]classify.Strategy{"entry": classify.StrategyInline},
		Renames:    resolver.Renames{},
		Order:      []module.ID{"entry"},
		Entry:      "entry",
		Options:    Options{Stdlib: map[string]bool{"sys": true, "typing": true, "os": true}},
	}
	out, err := a.Assemble()
	require.NoError(t, err)

	var stdlibOrder, thirdPartyOrder []string
	for _, s := range out.Body {
		switch st := s.(type) {
		case *astmodel.Import:
			if st.Names[0].Name == "sys" || st.Names[0].Name == "os" {
				stdlibOrder = append(stdlibOrder, st.Names[0].Name)
			}
		case *astmodel.FromImport:
			if st.Module == "typing" {
				stdlibOrder = append(stdlibOrder, st.Module)
			}
			if st.Module == "requests" {
				thirdPartyOrder = append(thirdPartyOrder, st.Module)
			}
		}
	}
	assert.Equal(t, []string{"os", "sys", "typing"}, stdlibOrder)
	assert.Equal(t, []string{"requests"}, thirdPartyOrder)

	// from typing import Dict must survive as a FromImport, not collapse
	// into a bare "import typing".
	foundFromTyping := false
	for _, s := range out.Body {
		if fi, ok := s.(*astmodel.FromImport); ok && fi.Module == "typing" {
			require.Len(t, fi.Names, 1)
			assert.Equal(t, "Dict", fi.Names[0].Name)
			foundFromTyping = true
		}
	}
	assert.True(t, foundFromTyping)
}

func TestAssembleNeverHoistsSideEffectDenylistedImport(t *testing.T) {
	g := graph.New("entry")
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "antigravity"}}},
	}}, "h", false)
	g.AddModule(entry)

	a := &Assembler{
		Graph:      g,
		Strategies: map[module.ID]classify.Strategy{"entry": classify.StrategyInline},
		Renames:    resolver.Renames{},
		Order:      []module.ID{"entry"},
		Entry:      "entry",
		Options:    Options{Stdlib: map[string]bool{"antigravity": true}},
	}
	out, err := a.Assemble()
	require.NoError(t, err)

	antigravityImports := 0
	for _, s := range out.Body {
		if imp, ok := s.(*astmodel.Import); ok {
			for _, alias := range imp.Names {
				if alias.Name == "antigravity" {
					antigravityImports++
				}
			}
		}
	}
	assert.Equal(t, 1, antigravityImports, "side-effect denylisted import must stay in the entry body, not be hoisted")
}

func TestAssembleCollectsFutureImportsIntoOneSortedStatement(t *testing.T) {
	g := graph.New("entry")
	helper := module.NewModule("pkg.helper", "helper.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "__future__", Names: []astmodel.ImportAlias{{Name: "division"}}},
		&astmodel.FunctionDef{Name: "compute", Body: []astmodel.Stmt{&astmodel.Pass{}}},
	}}, "h1", false)
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "__future__", Names: []astmodel.ImportAlias{{Name: "annotations"}}},
		&astmodel.FromImport{Module: "pkg.helper", Names: []astmodel.ImportAlias{{Name: "compute"}}},
	}}, "h2", false)
	g.AddModule(helper)
	g.AddModule(entry)
	g.AddDependency("entry", "pkg.helper", graph.DependencyFromImport)

	a := &Assembler{
		Graph:      g,
		Strategies: map[module.ID]classify.Strategy{"pkg.helper": classify.StrategyInline, "entry": classify.StrategyInline},
		Renames:    resolver.Renames{},
		Order:      []module.ID{"pkg.helper", "entry"},
		Entry:      "entry",
	}
	out, err := a.Assemble()
	require.NoError(t, err)

	require.NotEmpty(t, out.Body)
	future, ok := out.Body[0].(*astmodel.FromImport)
	require.True(t, ok, "expected the combined __future__ import first")
	assert.Equal(t, "__future__", future.Module)
	require.Len(t, future.Names, 2)
	assert.Equal(t, "annotations", future.Names[0].Name)
	assert.Equal(t, "division", future.Names[1].Name)
}

func TestAssembleEmitsWrapperInitForCyclicModule(t *testing.T) {
	g := graph.New("entry")
	cyclic := module.NewModule("pkg.cyclic", "cyclic.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "step", Body: []astmodel.Stmt{&astmodel.Pass{}}},
	}}, "h1", false)
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.cyclic", Names: []astmodel.ImportAlias{{Name: "step"}}},
	}}, "h2", false)
	g.AddModule(cyclic)
	g.AddModule(entry)

	strategies := map[module.ID]classify.Strategy{"pkg.cyclic": classify.StrategyWrapper, "entry": classify.StrategyInline}
	a := &Assembler{
		Graph:      g,
		Strategies: strategies,
		Renames:    resolver.Renames{},
		Order:      []module.ID{"pkg.cyclic", "entry"},
		Entry:      "entry",
	}
	out, err := a.Assemble()
	require.NoError(t, err)

	var sawInitFn, sawNamespaceClass bool
	for _, s := range out.Body {
		if fn, ok := s.(*astmodel.FunctionDef); ok && fn.Name == "__weld_init_pkg_cyclic" {
			sawInitFn = true
		}
		if cd, ok := s.(*astmodel.ClassDef); ok && cd.Name == namespaceClassName {
			sawNamespaceClass = true
		}
	}
	assert.True(t, sawInitFn)
	assert.True(t, sawNamespaceClass)
}
