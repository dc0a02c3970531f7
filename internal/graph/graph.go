// Package graph builds the module dependency graph (spec.md §4.1): it
// orders modules for emission, detects import cycles, and classifies
// each cycle as resolvable or not so the bundler can fail fast on the
// cases it cannot emit correctly. It is grounded on sentra's
// internal/build.ModuleGraph/topologicalSort (a recursive DFS over a
// map of ModuleNode) generalized to a proper Tarjan SCC pass, the way
// pyscn's internal/analyzer dependency graph tracks afferent/efferent
// edges over a map of nodes instead of walking the AST anew each time.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"weld/internal/module"
)

// DependencyKind records why an edge exists, mirroring the import shapes
// spec.md §4.5 distinguishes when later deciding how to rewrite them.
type DependencyKind int

const (
	DependencyImport DependencyKind = iota
	DependencyFromImport
	DependencyRelative
)

// Edge is one directed dependency: From imports something resolved to To.
type Edge struct {
	From module.ID
	To   module.ID
	Kind DependencyKind
}

// Graph is the module dependency graph for one bundle.
type Graph struct {
	Entry module.ID

	modules map[module.ID]*module.Module
	out     map[module.ID][]Edge // From -> edges leaving it
	in      map[module.ID][]Edge // To -> edges arriving at it
}

// New creates an empty graph rooted at entry.
func New(entry module.ID) *Graph {
	return &Graph{
		Entry:   entry,
		modules: map[module.ID]*module.Module{},
		out:     map[module.ID][]Edge{},
		in:      map[module.ID][]Edge{},
	}
}

// AddModule registers m as a graph node. Adding the same ID twice replaces
// the prior module and keeps its recorded edges.
func (g *Graph) AddModule(m *module.Module) {
	g.modules[m.ID] = m
	if _, ok := g.out[m.ID]; !ok {
		g.out[m.ID] = nil
	}
}

// Module returns the registered module for id, if any.
func (g *Graph) Module(id module.ID) (*module.Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// Modules returns every registered module ID, sorted for determinism.
func (g *Graph) Modules() []module.ID {
	ids := make([]module.ID, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AddDependency records that from depends on to. Self-dependencies
// (a module importing itself, seen in re-export shims) are dropped, and
// duplicate edges of the same kind are not repeated.
func (g *Graph) AddDependency(from, to module.ID, kind DependencyKind) {
	if from == to {
		return
	}
	for _, e := range g.out[from] {
		if e.To == to && e.Kind == kind {
			return
		}
	}
	edge := Edge{From: from, To: to, Kind: kind}
	g.out[from] = append(g.out[from], edge)
	g.in[to] = append(g.in[to], edge)
}

// Dependencies returns the modules from depends on directly, sorted.
func (g *Graph) Dependencies(from module.ID) []module.ID {
	return sortedTargets(g.out[from])
}

// Dependents returns the modules that directly depend on to, sorted.
func (g *Graph) Dependents(to module.ID) []module.ID {
	seen := map[module.ID]bool{}
	var ids []module.ID
	for _, e := range g.in[to] {
		if !seen[e.From] {
			seen[e.From] = true
			ids = append(ids, e.From)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedTargets(edges []Edge) []module.ID {
	seen := map[module.ID]bool{}
	var ids []module.ID
	for _, e := range edges {
		if !seen[e.To] {
			seen[e.To] = true
			ids = append(ids, e.To)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CycleError reports an import cycle the bundler cannot resolve, per the
// unresolvable classification in spec.md §4.1.
type CycleError struct {
	Group []module.ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("unresolvable import cycle: %v", e.Group)
}

// TopologicalSort returns module IDs ordered so every dependency precedes
// its dependents, breaking ties alphabetically for determinism (spec.md
// §7: bundler output must be byte-identical across runs on unchanged
// input). Modules inside a cycle are ordered among themselves by ID and
// the cycle as a whole takes the place of one node, ordered against its
// ready peers by its smallest module ID; the caller is expected to have already classified the cycle and to
// reject the build if ClassifyCycle says it is unresolvable.
func (g *Graph) TopologicalSort() []module.ID {
	sccs := g.StronglyConnectedComponents()

	// condense: map each module to its component index
	compOf := map[module.ID]int{}
	for i, comp := range sccs {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	compOut := make(map[int]map[int]bool, len(sccs))
	for i := range sccs {
		compOut[i] = map[int]bool{}
	}
	for from, edges := range g.out {
		for _, e := range edges {
			cf, cfOk := compOf[from]
			ct, ctOk := compOf[e.To]
			if cfOk && ctOk && cf != ct {
				compOut[cf][ct] = true
			}
		}
	}

	// Kahn's algorithm over the condensation: a component is ready once
	// every component it depends on has been emitted; ties are broken
	// alphabetically on component representative.
	indeg := make(map[int]int, len(sccs))
	for i := range sccs {
		indeg[i] = len(compOut[i])
	}
	compIn := make(map[int][]int, len(sccs))
	for from, outs := range compOut {
		for to := range outs {
			compIn[to] = append(compIn[to], from)
		}
	}

	var ready []int
	for i := range sccs {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(sccs))
	visited := make([]bool, len(sccs))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			return representative(sccs[ready[i]]) < representative(sccs[ready[j]])
		})
		next := ready[0]
		ready = ready[1:]
		if visited[next] {
			continue
		}
		visited[next] = true
		order = append(order, next)
		for _, from := range compIn[next] {
			indeg[from]--
			if indeg[from] == 0 {
				ready = append(ready, from)
			}
		}
	}

	result := make([]module.ID, 0, len(g.modules))
	for _, ci := range order {
		comp := append([]module.ID(nil), sccs[ci]...)
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		result = append(result, comp...)
	}
	return result
}

func representative(ids []module.ID) module.ID {
	min := ids[0]
	for _, id := range ids[1:] {
		if id < min {
			min = id
		}
	}
	return min
}

// StronglyConnectedComponents runs Tarjan's algorithm and returns the
// components in discovery order, each internally sorted for determinism.
// A component of size 1 whose module has no self-edge is not a cycle.
func (g *Graph) StronglyConnectedComponents() [][]module.ID {
	ids := g.Modules() // sorted, so iteration order (and thus tie-breaking) is stable
	state := &tarjanState{
		index:   map[module.ID]int{},
		lowlink: map[module.ID]int{},
		onStack: map[module.ID]bool{},
	}
	for _, id := range ids {
		if _, ok := state.index[id]; !ok {
			g.strongConnect(id, state)
		}
	}
	return state.result
}

type tarjanState struct {
	counter int
	index   map[module.ID]int
	lowlink map[module.ID]int
	onStack map[module.ID]bool
	stack   []module.ID
	result  [][]module.ID
}

func (g *Graph) strongConnect(v module.ID, st *tarjanState) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range g.Dependencies(v) {
		if _, seen := st.index[w]; !seen {
			g.strongConnect(w, st)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var comp []module.ID
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		st.result = append(st.result, comp)
	}
}

// CycleKind is the spec.md §4.1 classification of an import cycle.
type CycleKind int

const (
	// CycleNotACycle means the component has a single module with no
	// self-dependency: not actually a cycle.
	CycleNotACycle CycleKind = iota
	// CycleUnresolvable is a cycle where at least one participating
	// module reads another cycle member's module-level constant
	// (non-function, non-class) binding at import time: no emission
	// order can satisfy both modules' top-level execution order.
	CycleUnresolvable
	// CycleResolvableFunctionLevel is a cycle where every cross-module
	// reference inside the cycle is to a function: deferring the body
	// (wrapper strategy, spec.md §4.4) breaks the ordering constraint.
	CycleResolvableFunctionLevel
	// CycleResolvableClassLevel is like CycleResolvableFunctionLevel but
	// at least one cross-module reference is to a class rather than a
	// plain function.
	CycleResolvableClassLevel
)

func (k CycleKind) String() string {
	switch k {
	case CycleNotACycle:
		return "not-a-cycle"
	case CycleUnresolvable:
		return "unresolvable"
	case CycleResolvableFunctionLevel:
		return "resolvable-function-level"
	case CycleResolvableClassLevel:
		return "resolvable-class-level"
	default:
		return "unknown"
	}
}

// ClassifyCycle inspects the modules in a strongly-connected component and
// decides whether the bundler can still emit them via the wrapper
// strategy (spec.md §4.4) or must reject the build.
func (g *Graph) ClassifyCycle(group []module.ID) CycleKind {
	if len(group) == 1 {
		self := group[0]
		for _, e := range g.out[self] {
			if e.To == self {
				return g.classifyMembers(group)
			}
		}
		return CycleNotACycle
	}
	return g.classifyMembers(group)
}

// dottedPrefixPair reports whether group is exactly the two modules of a
// package/submodule relation (e.g. "pkg" and "pkg.sub") — the common case
// of a package __init__ importing one of its own submodules, which
// imports the package back for re-exports. spec.md §4.1 calls this out
// explicitly as a normal, resolvable pattern rather than a genuine cycle
// to reject.
func dottedPrefixPair(group []module.ID) bool {
	if len(group) != 2 {
		return false
	}
	a, b := string(group[0]), string(group[1])
	return strings.HasPrefix(b, a+".") || strings.HasPrefix(a, b+".")
}

func (g *Graph) classifyMembers(group []module.ID) CycleKind {
	if dottedPrefixPair(group) {
		return CycleResolvableFunctionLevel
	}

	members := map[module.ID]bool{}
	for _, id := range group {
		members[id] = true
	}

	// A package-init module participating in the cycle rules out the
	// unresolvable verdict (spec.md §4.1: "no module is a package-init"
	// is part of the unresolvable precondition) rather than forcing it —
	// a cross-module constant read is downgraded to class-level instead
	// of rejected outright.
	hasPackageInit := false
	for _, id := range group {
		if m, ok := g.modules[id]; ok && m.IsPackageInit {
			hasPackageInit = true
			break
		}
	}

	kind := CycleResolvableFunctionLevel
	for _, id := range group {
		m, ok := g.modules[id]
		if !ok {
			continue
		}
		for _, item := range m.Items {
			if len(item.ImportedNames) == 0 {
				continue
			}
			for bound, from := range item.ImportedNames {
				if !members[module.ID(from)] {
					continue
				}
				target, ok := g.modules[module.ID(from)]
				if !ok {
					continue
				}
				decl, ok := target.Vars[bound]
				if !ok {
					continue
				}
				declItem := target.Items[decl.DeclaredBy]
				switch declItem.Kind {
				case module.ItemFunctionDef:
					// function-level: fine, stays resolvable
				case module.ItemClassDef:
					kind = CycleResolvableClassLevel
				default:
					if hasPackageInit {
						kind = CycleResolvableClassLevel
						continue
					}
					return CycleUnresolvable
				}
			}
		}
	}
	return kind
}
