package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weld/internal/astmodel"
	"weld/internal/module"
)

func TestLiveItemsDropsUnreadHelperWhenAllIsDeclared(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "used"},
		&astmodel.FunctionDef{Name: "unused"},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "__all__"}},
			Value:   &astmodel.List{Elts: []astmodel.Expr{&astmodel.StrLit{Value: "used"}}},
		},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	live := LiveItems(m, nil)
	assert.True(t, live[0])
	assert.False(t, live[1])
}

func TestLiveItemsKeepsEverythingWithoutDunderAll(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.FunctionDef{Name: "a"},
		&astmodel.FunctionDef{Name: "b"},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	live := LiveItems(m, nil)
	assert.True(t, live[0])
	assert.True(t, live[1])
}

func TestLiveItemsPrunesImportsMarkedUnused(t *testing.T) {
	body := []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os"}}},
	}
	m := module.NewModule("pkg.mod", "mod.py", &astmodel.Module{Body: body}, "h", false)

	unusedSet := map[module.ItemID]bool{0: true}
	live := LiveItems(m, unusedSet)
	assert.False(t, live[0])
}
