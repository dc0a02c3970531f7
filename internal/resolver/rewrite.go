package resolver

import (
	"weld/internal/astmodel"
	"weld/internal/module"
)

// Apply clones m's AST and rewrites every reference to a renamed name —
// its declaration site and every read — to the new name, per the
// resource policy in spec.md §5 (the caller owns the clone it gets back;
// m.AST itself is left untouched for any other stage still reading it).
// It is a no-op clone when id has no entry in renames.
func Apply(renames Renames, id module.ID, m *module.Module) *astmodel.Module {
	clone := astmodel.CloneModule(m.AST)
	clone.Body = ApplyToStmts(renames, id, clone.Body)
	return clone
}

// ApplyToStmts returns stmts with id's renames applied (stmts itself
// when id has none) — used by the bundle assembler on a module's
// tree-shaken statement list.
func ApplyToStmts(renames Renames, id module.ID, stmts []astmodel.Stmt) []astmodel.Stmt {
	moduleRenames := renames[id]
	if len(moduleRenames) == 0 {
		return stmts
	}
	return astmodel.RewriteStmts(stmts, Substitution(moduleRenames), true)
}

// Substitution adapts a module's rename table into the onName function
// astmodel.RewriteStmts/RewriteExpr expect.
func Substitution(moduleRenames map[string]string) func(string) (astmodel.Expr, bool) {
	return func(name string) (astmodel.Expr, bool) {
		newName, ok := moduleRenames[name]
		if !ok {
			return nil, false
		}
		return &astmodel.Name{Id: newName}, true
	}
}
