package graph

import "weld/internal/module"

// LiveItems computes, for a module, the set of item IDs that must be
// kept: every item with a side effect, every import the unused-import
// analyzer (internal/unused) did not mark prunable, every item reachable
// from the module's exports (its __all__ list, or everything if there is
// none), and every item anything else in the module still reads —
// directly or because it feeds something kept. This backs the
// tree-shaking described in spec.md §4.1 ("modules retain only the items
// a live entry point can reach") together with the unused-import removal
// in spec.md §4.2. unusedImports may be nil, in which case every import
// is treated as live (callers that never ran the analyzer get the
// conservative behavior).
func LiveItems(m *module.Module, unusedImports map[module.ItemID]bool) map[module.ItemID]bool {
	live := map[module.ItemID]bool{}

	var mark func(module.ItemID)
	mark = func(id module.ItemID) {
		if live[id] {
			return
		}
		live[id] = true
		item := m.Items[id]
		for name := range item.ReadNames {
			markName(m, name, mark)
		}
		for name := range item.EventualReadNames {
			markName(m, name, mark)
		}
	}

	isImport := func(item *module.Item) bool {
		return item.Kind == module.ItemImport || item.Kind == module.ItemFromImport
	}

	for _, item := range m.Items {
		if item.HasSideEffect {
			mark(item.ID)
			continue
		}
		if isImport(item) && !unusedImports[item.ID] {
			mark(item.ID)
		}
	}

	if m.IsPackageInit || m.DunderAll == nil {
		// No declared export surface: a package __init__ or a module
		// with no __all__ is conservatively kept whole (beyond the
		// imports already pruned above), since any name it declares
		// might be imported by another module.
		for _, item := range m.Items {
			if !isImport(item) {
				mark(item.ID)
			}
		}
		return live
	}

	exported := map[string]bool{}
	for _, name := range m.DunderAll {
		exported[name] = true
	}
	for name := range exported {
		if vs, ok := m.Vars[name]; ok {
			mark(vs.DeclaredBy)
		}
	}
	return live
}

func markName(m *module.Module, name string, mark func(module.ItemID)) {
	vs, ok := m.Vars[name]
	if !ok {
		return
	}
	mark(vs.DeclaredBy)
}
