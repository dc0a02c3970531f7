package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weld/internal/astmodel"
	"weld/internal/graph"
	"weld/internal/module"
)

func TestClassifyDependencyForNonFirstPartyModule(t *testing.T) {
	g := graph.New("entry")
	m := module.NewModule("os", "os.py", &astmodel.Module{}, "h", false)
	g.AddModule(m)

	got := Classify(g, "os", nil, map[module.ID]bool{})
	assert.Equal(t, StrategyDependency, got)
}

func TestClassifyWrapperForPackageInit(t *testing.T) {
	g := graph.New("entry")
	m := module.NewModule("pkg", "pkg/__init__.py", &astmodel.Module{}, "h", true)
	g.AddModule(m)

	got := Classify(g, "pkg", nil, map[module.ID]bool{"pkg": true})
	assert.Equal(t, StrategyWrapper, got)
}

func TestClassifyWrapperWhenImportedAsWholeModule(t *testing.T) {
	g := graph.New("entry")
	sub := module.NewModule("pkg.sub", "pkg/sub.py", &astmodel.Module{}, "h", false)
	entry := module.NewModule("entry", "entry.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "pkg.sub"}}},
	}}, "h", false)
	g.AddModule(sub)
	g.AddModule(entry)

	got := Classify(g, "pkg.sub", nil, map[module.ID]bool{"pkg.sub": true, "entry": true})
	assert.Equal(t, StrategyWrapper, got)
}

func TestClassifyInlineForPlainHelperModule(t *testing.T) {
	g := graph.New("entry")
	sub := module.NewModule("pkg.sub", "pkg/sub.py", &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "helper"},
	}}, "h", false)
	g.AddModule(sub)

	got := Classify(g, "pkg.sub", nil, map[module.ID]bool{"pkg.sub": true})
	assert.Equal(t, StrategyInline, got)
}
