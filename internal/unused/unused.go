// Package unused implements the unused-import analyzer (spec.md §4.2): it
// decides which import statements a module no longer needs once its
// declared names are checked against every read in the module, and
// reports that decision conservatively — an import is only ever dropped
// when every preservation rule clears it.
package unused

import (
	"weld/internal/astmodel"
	"weld/internal/module"
)

// SideEffectModules lists dotted module paths whose mere import performs
// a side effect (monkeypatches a standard type, registers a codec,
// installs an atexit hook) and so must never be dropped even when no
// name it binds is read, nor hoisted to the top of the bundle even when
// it would otherwise be a plain stdlib import (spec.md §6's side-effect
// denylist) — both internal/unused and internal/assemble consult this
// single var so the two never drift out of sync. The bundler passes no
// extra modules, so this set is the whole denylist.
var SideEffectModules = map[string]bool{
	"antigravity":   true,
	"this":          true,
	"__hello__":     true,
	"__phello__":    true,
	"site":          true,
	"sitecustomize": true,
	"usercustomize": true,
	"readline":      true,
	"rlcompleter":   true,
	"turtle":        true,
	"tkinter":       true,
	"webbrowser":    true,
	"platform":      true,
	"locale":        true,
}

// Unused returns the set of item IDs in m that are import statements safe
// to remove: nothing in the module reads the names they bind, the module
// is not a package __init__, none of the bound names are re-exported via
// __all__, the import is not a bare `from x import *`, and the imported
// module is not on the side-effect denylist.
func Unused(m *module.Module, sideEffect map[string]bool) map[module.ItemID]bool {
	if sideEffect == nil {
		sideEffect = SideEffectModules
	}
	result := map[module.ItemID]bool{}
	if m.IsPackageInit {
		return result
	}

	exported := map[string]bool{}
	for _, n := range m.DunderAll {
		exported[n] = true
	}

	for _, item := range m.Items {
		if item.Kind != module.ItemImport && item.Kind != module.ItemFromImport {
			continue
		}
		if isStarImport(item.Stmt) {
			continue
		}
		if importsSideEffectModule(item, sideEffect) {
			continue
		}
		if anyDeclaredNameExported(item, exported) {
			continue
		}
		if anyDeclaredNameRead(m, item) {
			continue
		}
		result[item.ID] = true
	}
	return result
}

func isStarImport(stmt astmodel.Stmt) bool {
	fi, ok := stmt.(*astmodel.FromImport)
	if !ok {
		return false
	}
	for _, alias := range fi.Names {
		if alias.Name == "*" {
			return true
		}
	}
	return false
}

func importsSideEffectModule(item *module.Item, sideEffect map[string]bool) bool {
	for _, path := range item.ImportedNames {
		if sideEffect[path] {
			return true
		}
		for i := len(path); i > 0; i-- {
			if path[i-1] == '.' && sideEffect[path[:i-1]] {
				return true
			}
		}
	}
	return false
}

func anyDeclaredNameExported(item *module.Item, exported map[string]bool) bool {
	for _, name := range item.DeclaredNames {
		if exported[name] {
			return true
		}
	}
	return false
}

// anyDeclaredNameRead reports whether any name item declares is read by
// some other item in the module, either immediately or eventually
// (spec.md's attribute-chain rule: `import a.b` followed only by
// `a.c` still counts `a` as read, since the binder cannot tell at
// analysis time whether `c` hangs off the `a.b` submodule or off `a`
// itself without resolving the whole package tree).
func anyDeclaredNameRead(m *module.Module, item *module.Item) bool {
	for _, name := range item.DeclaredNames {
		vs, ok := m.Vars[name]
		if !ok {
			continue
		}
		for _, readerID := range vs.ReadBy {
			if readerID != item.ID {
				return true
			}
		}
	}
	return false
}
