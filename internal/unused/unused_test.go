package unused

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weld/internal/astmodel"
	"weld/internal/module"
)

func TestUnusedDropsImportNobodyReads(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
		&astmodel.FunctionDef{Name: "run"},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	u := Unused(m, nil)
	assert.True(t, u[0])
}

func TestUnusedKeepsImportThatIsRead(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
		&astmodel.ExprStmt{Value: &astmodel.Call{
			Func: &astmodel.Attribute{Value: &astmodel.Name{Id: "os"}, Attr: "getcwd"},
		}},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	u := Unused(m, nil)
	assert.False(t, u[0])
}

func TestUnusedKeepsExportedName(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.sub", Names: []astmodel.ImportAlias{{Name: "helper"}}},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "__all__"}},
			Value:   &astmodel.List{Elts: []astmodel.Expr{&astmodel.StrLit{Value: "helper"}}},
		},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	u := Unused(m, nil)
	assert.False(t, u[0])
}

func TestUnusedKeepsPackageInitImportsUnconditionally(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
	}
	m := module.NewModule("pkg", "pkg/__init__.py", &astmodel.Module{Body: body}, "h", true)

	u := Unused(m, nil)
	assert.Empty(t, u)
}

func TestUnusedKeepsStarImport(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.FromImport{Module: "pkg.sub", Names: []astmodel.ImportAlias{{Name: "*"}}},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	u := Unused(m, nil)
	assert.Empty(t, u)
}

func TestSideEffectModulesCoversFullDenylist(t *testing.T) {
	for _, name := range []string{
		"antigravity", "this", "__hello__", "__phello__", "site",
		"sitecustomize", "usercustomize", "readline", "rlcompleter",
		"turtle", "tkinter", "webbrowser", "platform", "locale",
	} {
		assert.True(t, SideEffectModules[name], "expected %s on the side-effect denylist", name)
	}
}

func TestUnusedKeepsImportOfDenylistedSideEffectModule(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "turtle"}}},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	u := Unused(m, nil)
	assert.Empty(t, u)
}
