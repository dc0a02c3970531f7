// Package classify implements the strategy classifier (spec.md §4.4):
// for each first-party module it decides whether the bundle assembler can
// inline the module's statements directly into the entry module, must
// wrap them in an init function invoked at the point of first import, or
// should leave the import alone because the module lives outside the
// bundle (stdlib or a third-party dependency).
package classify

import (
	"weld/internal/graph"
	"weld/internal/module"
)

// Strategy is the emission approach chosen for one module.
type Strategy int

const (
	// StrategyInline splices the module's (tree-shaken) statements
	// directly into the entry module body, renaming conflicting names
	// (spec.md §4.3). The common case: a plain helper module imported
	// only via `from pkg.mod import name`.
	StrategyInline Strategy = iota
	// StrategyWrapper emits the module body inside a generated init
	// function, called the first time anything imports it, and
	// installs the result as a synthetic module object. Required when
	// the module participates in a resolvable import cycle, is
	// imported as a whole module object (`import pkg.mod`), or is a
	// package __init__.
	StrategyWrapper
	// StrategyDependency leaves the import statement untouched: the
	// module resolves outside the bundle, at the target runtime's
	// normal import mechanism (standard library or third-party).
	StrategyDependency
)

func (s Strategy) String() string {
	switch s {
	case StrategyInline:
		return "inline"
	case StrategyWrapper:
		return "wrapper"
	case StrategyDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// HasSideEffects reports whether any of a module's top-level items runs
// code beyond declaring a name: a bare call, a class body (which always
// executes its statements at class-creation time), or a conditional
// import guard.
func HasSideEffects(m *module.Module) bool {
	for _, item := range m.Items {
		if item.HasSideEffect {
			return true
		}
		if item.Kind == module.ItemIf || item.Kind == module.ItemTry {
			return true
		}
	}
	return false
}

// ImportedAsModule reports whether some other module in the bundle does
// `import <id>` (or `import <id> as alias`) rather than only ever pulling
// individual names out of it with `from <id> import name`. When true the
// module object itself must exist at runtime as something dotted access
// can resolve against, which inlining its statements into the entry
// module cannot provide.
func ImportedAsModule(g *graph.Graph, id module.ID) bool {
	target := string(id)
	for _, other := range g.Modules() {
		m, ok := g.Module(other)
		if !ok {
			continue
		}
		for _, item := range m.Items {
			if item.Kind != module.ItemImport {
				continue
			}
			for _, path := range item.ImportedNames {
				if path == target {
					return true
				}
			}
		}
	}
	return false
}

// Classify assigns a Strategy to a module. cycleOf maps a module ID to the
// classification of the import cycle it participates in (graph.CycleKind),
// or graph.CycleNotACycle if it is not part of one. firstParty reports
// whether an ID is a module this bundle owns the source of; anything else
// is assumed to resolve through the target runtime's normal import path.
func Classify(g *graph.Graph, id module.ID, cycleOf map[module.ID]graph.CycleKind, firstParty map[module.ID]bool) Strategy {
	if !firstParty[id] {
		return StrategyDependency
	}
	m, ok := g.Module(id)
	if !ok {
		return StrategyDependency
	}
	if m.IsPackageInit {
		return StrategyWrapper
	}
	if kind := cycleOf[id]; kind == graph.CycleResolvableFunctionLevel || kind == graph.CycleResolvableClassLevel {
		return StrategyWrapper
	}
	if ImportedAsModule(g, id) {
		return StrategyWrapper
	}
	return StrategyInline
}
