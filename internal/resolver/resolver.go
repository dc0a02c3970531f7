// Package resolver implements the symbol resolver (spec.md §4.3): once
// the strategy classifier decides which modules get flattened into the
// entry module's namespace, every declared name from those modules lands
// in one shared scope. This package finds the names that collide across
// modules and assigns each losing declaration a deterministic new name,
// then exposes the substitution the import rewriter and bundle assembler
// apply to every reference to it.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"weld/internal/classify"
	"weld/internal/graph"
	"weld/internal/module"
)

// Renames maps, per module, the original declared name to the name it
// must be emitted as after conflict resolution. A module with no entry
// in the map (or no entry for a given name) keeps its names unchanged.
type Renames map[module.ID]map[string]string

// Resolve walks modules in topological order and assigns renames to every
// inline module's declared name that collides with a name already
// claimed by an earlier module or by the reserved set (builtins,
// keywords, and any name the entry module itself declares — the entry
// module's own top-level names are never renamed, since external code
// and the CLI entry point address it by its original names). Names a
// module only reads, and names it binds by importing an inlined or
// wrapped module (the rewriter drops those bindings), claim nothing.
func Resolve(g *graph.Graph, order []module.ID, entry module.ID, strategies map[module.ID]classify.Strategy, reserved map[string]bool) Renames {
	renames := Renames{}
	claimed := map[string]module.ID{}
	for name := range reserved {
		claimed[name] = entry
	}

	if m, ok := g.Module(entry); ok {
		for _, name := range sortedDeclared(m, strategies) {
			claimed[name] = entry
		}
	}

	for _, id := range order {
		if id == entry {
			continue
		}
		if strategies[id] != classify.StrategyInline {
			continue
		}
		m, ok := g.Module(id)
		if !ok {
			continue
		}
		moduleRenames := map[string]string{}
		for _, name := range sortedDeclared(m, strategies) {
			owner, taken := claimed[name]
			if !taken || owner == id {
				claimed[name] = id
				continue
			}
			newName := renameFor(id, name, claimed)
			moduleRenames[name] = newName
			claimed[newName] = id
		}
		if len(moduleRenames) > 0 {
			renames[id] = moduleRenames
		}
	}
	return renames
}

// renameFor builds the synthetic name `__<escaped module>_<name>`,
// disambiguating with a numeric suffix in the unlikely case that name is
// itself already claimed (e.g. two sibling modules both named so their
// escaped forms collide).
func renameFor(id module.ID, name string, claimed map[string]module.ID) string {
	escaped := strings.ReplaceAll(string(id), ".", "_")
	base := fmt.Sprintf("__%s_%s", escaped, name)
	candidate := base
	for i := 2; ; i++ {
		if _, taken := claimed[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

func sortedDeclared(m *module.Module, strategies map[module.ID]classify.Strategy) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, item := range m.Items {
		for _, name := range item.DeclaredNames {
			s, bundled := strategies[module.ID(item.ImportedNames[name])]
			if !seen[name] && !(bundled && s != classify.StrategyDependency) {
				seen[name] = true
				keys = append(keys, name)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
