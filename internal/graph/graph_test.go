package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/astmodel"
	"weld/internal/module"
)

func modOf(id string, body []astmodel.Stmt) *module.Module {
	return module.NewModule(module.ID(id), id+".py", &astmodel.Module{Body: body}, "hash-"+id, false)
}

func TestTopologicalSortOrdersDependenciesBeforeDependents(t *testing.T) {
	g := New("entry")
	a := modOf("a", nil)
	b := modOf("b", nil)
	entry := modOf("entry", nil)
	g.AddModule(a)
	g.AddModule(b)
	g.AddModule(entry)
	g.AddDependency("entry", "b", DependencyImport)
	g.AddDependency("b", "a", DependencyImport)

	order := g.TopologicalSort()
	require.Equal(t, []module.ID{"a", "b", "entry"}, order)
}

func TestTopologicalSortIsDeterministicAcrossInsertionOrder(t *testing.T) {
	g1 := New("entry")
	g2 := New("entry")
	for _, g := range []*Graph{g1, g2} {
		g.AddModule(modOf("z", nil))
		g.AddModule(modOf("a", nil))
		g.AddModule(modOf("m", nil))
		g.AddModule(modOf("entry", nil))
		g.AddDependency("entry", "z", DependencyImport)
		g.AddDependency("entry", "a", DependencyImport)
		g.AddDependency("entry", "m", DependencyImport)
	}
	assert.Equal(t, g1.TopologicalSort(), g2.TopologicalSort())
}

func TestStronglyConnectedComponentsFindsCycle(t *testing.T) {
	g := New("entry")
	g.AddModule(modOf("a", nil))
	g.AddModule(modOf("b", nil))
	g.AddDependency("a", "b", DependencyImport)
	g.AddDependency("b", "a", DependencyImport)

	sccs := g.StronglyConnectedComponents()
	var found bool
	for _, comp := range sccs {
		if len(comp) == 2 {
			found = true
			assert.Equal(t, []module.ID{"a", "b"}, comp)
		}
	}
	assert.True(t, found, "expected a 2-module strongly connected component")
}

func TestClassifyCycleUnresolvableOnConstantRead(t *testing.T) {
	g := New("entry")
	// a.py: from b import B_CONST
	a := modOf("a", []astmodel.Stmt{
		&astmodel.FromImport{Module: "b", Names: []astmodel.ImportAlias{{Name: "B_CONST"}}},
	})
	// b.py: from a import A_CONST \n B_CONST = A_CONST + 1
	b := modOf("b", []astmodel.Stmt{
		&astmodel.FromImport{Module: "a", Names: []astmodel.ImportAlias{{Name: "A_CONST"}}},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "B_CONST"}},
			Value:   &astmodel.BinOp{Left: &astmodel.Name{Id: "A_CONST"}, Op: "+", Right: &astmodel.IntLit{Value: 1}},
		},
	})
	g.AddModule(a)
	g.AddModule(b)
	g.AddDependency("a", "b", DependencyFromImport)
	g.AddDependency("b", "a", DependencyFromImport)

	kind := g.ClassifyCycle([]module.ID{"a", "b"})
	assert.Equal(t, CycleUnresolvable, kind)
}

func TestClassifyCycleResolvableForPackageInitAndSubmoduleDottedPair(t *testing.T) {
	g := New("entry")
	pkg := module.NewModule("pkg", "pkg/__init__.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.sub", Names: []astmodel.ImportAlias{{Name: "SUB_CONST"}}},
	}}, "hash-pkg", true)
	sub := module.NewModule("pkg.sub", "pkg/sub.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg", Names: []astmodel.ImportAlias{{Name: "helper"}}},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "SUB_CONST"}},
			Value:   &astmodel.IntLit{Value: 1},
		},
	}}, "hash-sub", false)
	g.AddModule(pkg)
	g.AddModule(sub)
	g.AddDependency("pkg", "pkg.sub", DependencyFromImport)
	g.AddDependency("pkg.sub", "pkg", DependencyFromImport)

	kind := g.ClassifyCycle([]module.ID{"pkg", "pkg.sub"})
	assert.Equal(t, CycleResolvableFunctionLevel, kind)
}

func TestClassifyCyclePackageInitDowngradesConstantReadInsteadOfRejecting(t *testing.T) {
	g := New("entry")
	// Three-module cycle (not a dotted-prefix pair) where one member is
	// a package-init; a cross-module constant read must not be rejected
	// outright (spec.md §4.1: package-init-free is part of the
	// unresolvable precondition).
	pkg := module.NewModule("pkg", "pkg/__init__.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.other", Names: []astmodel.ImportAlias{{Name: "OTHER_CONST"}}},
		&astmodel.FunctionDef{Name: "helper"},
	}}, "hash-pkg", true)
	other := module.NewModule("pkg.other", "pkg/other.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.third", Names: []astmodel.ImportAlias{{Name: "helper"}}},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "OTHER_CONST"}},
			Value:   &astmodel.IntLit{Value: 1},
		},
	}}, "hash-other", false)
	third := module.NewModule("pkg.third", "pkg/third.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg", Names: []astmodel.ImportAlias{{Name: "helper"}}},
		&astmodel.FunctionDef{Name: "helper"},
	}}, "hash-third", false)
	g.AddModule(pkg)
	g.AddModule(other)
	g.AddModule(third)
	g.AddDependency("pkg", "pkg.other", DependencyFromImport)
	g.AddDependency("pkg.other", "pkg.third", DependencyFromImport)
	g.AddDependency("pkg.third", "pkg", DependencyFromImport)

	kind := g.ClassifyCycle([]module.ID{"pkg", "pkg.other", "pkg.third"})
	assert.Equal(t, CycleResolvableClassLevel, kind)
}

func TestClassifyCycleResolvableOnFunctionOnlyReference(t *testing.T) {
	g := New("entry")
	a := modOf("a", []astmodel.Stmt{
		&astmodel.FromImport{Module: "b", Names: []astmodel.ImportAlias{{Name: "helper"}}},
		&astmodel.FunctionDef{Name: "do_a"},
	})
	b := modOf("b", []astmodel.Stmt{
		&astmodel.FromImport{Module: "a", Names: []astmodel.ImportAlias{{Name: "do_a"}}},
		&astmodel.FunctionDef{Name: "helper"},
	})
	g.AddModule(a)
	g.AddModule(b)
	g.AddDependency("a", "b", DependencyFromImport)
	g.AddDependency("b", "a", DependencyFromImport)

	kind := g.ClassifyCycle([]module.ID{"a", "b"})
	assert.Equal(t, CycleResolvableFunctionLevel, kind)
}
