package module

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weld/internal/astmodel"
)

func TestNewModuleClassifiesItemsAndTracksDeclaredNames(t *testing.T) {
	ast := &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.Import{Names: []astmodel.ImportAlias{{Name: "os.path"}}},
		&astmodel.FromImport{Module: "helper", Names: []astmodel.ImportAlias{{Name: "greet", Asname: "hi"}}},
		&astmodel.FunctionDef{Name: "main"},
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "x"}},
			Value:   &astmodel.IntLit{Value: 1},
		},
	}}
	m := NewModule("pkg.mod", "pkg/mod.py", ast, "hash", false)

	assert.Len(t, m.Items, 4)

	importItem := m.Items[0]
	assert.Equal(t, ItemImport, importItem.Kind)
	assert.Equal(t, []string{"os"}, importItem.DeclaredNames)
	assert.Equal(t, "os.path", importItem.ImportedNames["os"])

	fromImportItem := m.Items[1]
	assert.Equal(t, ItemFromImport, fromImportItem.Kind)
	assert.Equal(t, []string{"hi"}, fromImportItem.DeclaredNames)
	assert.Equal(t, "helper", fromImportItem.ImportedNames["hi"])

	funcItem := m.Items[2]
	assert.Equal(t, ItemFunctionDef, funcItem.Kind)
	assert.Equal(t, []string{"main"}, funcItem.DeclaredNames)

	assignItem := m.Items[3]
	assert.Equal(t, ItemAssign, assignItem.Kind)
	assert.Equal(t, []string{"x"}, assignItem.DeclaredNames)
	assert.True(t, assignItem.WrittenNames["x"])

	require := m.Vars["main"]
	assert.NotNil(t, require)
	assert.Equal(t, ItemID(2), require.DeclaredBy)
}

func TestNewModuleRecordsDunderAll(t *testing.T) {
	ast := &astmodel.Module{Body: []astmodel.Stmt{
		&astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: "__all__"}},
			Value: &astmodel.List{Elts: []astmodel.Expr{
				&astmodel.StrLit{Value: "a"},
				&astmodel.StrLit{Value: "b"},
			}},
		},
	}}
	m := NewModule("pkg.mod", "pkg/mod.py", ast, "hash", false)
	assert.Equal(t, []string{"a", "b"}, m.DunderAll)
}

func TestNewModuleLeavesDunderAllNilWhenAbsent(t *testing.T) {
	m := NewModule("pkg.mod", "pkg/mod.py", &astmodel.Module{}, "hash", false)
	assert.Nil(t, m.DunderAll)
}

func TestImportBindingUsesAliasOrFirstDottedComponent(t *testing.T) {
	assert.Equal(t, "os", importBinding(astmodel.ImportAlias{Name: "os.path"}))
	assert.Equal(t, "np", importBinding(astmodel.ImportAlias{Name: "numpy", Asname: "np"}))
}

func TestExprStmtDocstringHasNoSideEffectButCallDoes(t *testing.T) {
	doc := buildItem(0, &astmodel.ExprStmt{Value: &astmodel.StrLit{Value: "doc"}})
	assert.False(t, doc.HasSideEffect)

	call := buildItem(0, &astmodel.ExprStmt{Value: &astmodel.Call{Func: &astmodel.Name{Id: "print"}}})
	assert.True(t, call.HasSideEffect)
}

func TestClassDefAlwaysHasSideEffect(t *testing.T) {
	item := buildItem(0, &astmodel.ClassDef{Name: "Thing"})
	assert.True(t, item.HasSideEffect)
	assert.Equal(t, []string{"Thing"}, item.DeclaredNames)
}

func TestSetAddGetIDsAndLen(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())

	m := NewModule("a", "a.py", &astmodel.Module{}, "h", false)
	s.Add(m)

	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, []ID{"a"}, s.IDs())
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
