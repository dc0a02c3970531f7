// Package assemble implements the bundle assembler (spec.md §4.6): given
// the graph, the strategy classification and the rename table, it emits
// a single module in this order — optional banner, hoisted dependency
// imports, wrapper init machinery, inlined module bodies, then the entry
// module's own body. Each inlined or entry body is preceded by calls to
// the wrapper init functions it needs; no separate post-init attribute
// assignments are emitted, since rewritten references read wrapped names
// off the wrapper's namespace object. It works the way sentra's LinkModules concatenates resolved
// module ASTs in dependency order, generalized from "concatenate" to
// "concatenate through a strategy-aware transform".
package assemble

import (
	"fmt"
	"sort"
	"strings"

	"weld/internal/astmodel"
	"weld/internal/classify"
	"weld/internal/graph"
	"weld/internal/module"
	"weld/internal/resolver"
	"weld/internal/rewrite"
	"weld/internal/unused"
)

// Options configures emission details the caller (the bundler
// orchestrator, driven by weld.yaml) controls.
type Options struct {
	// Banner is an optional comment-free marker statement's text,
	// emitted as the first line of the bundle (spec.md §6 banner).
	Banner string

	// Stdlib lists the standard-library top-level module names, used to
	// split the hoisted-import prelude into a stdlib group and a
	// third-party group, stdlib first, each sorted lexicographically
	// (spec.md §6 Output file format item 4). Callers normally pass
	// discovery.DefaultStdlib.
	Stdlib map[string]bool
}

// Assembler holds everything computed by the earlier stages and turns it
// into one astmodel.Module.
type Assembler struct {
	Graph      *graph.Graph
	Strategies map[module.ID]classify.Strategy
	Renames    resolver.Renames
	Order      []module.ID // topological order, entry last
	Entry      module.ID
	Options    Options
}

// namespaceClassName is the synthetic empty-attribute-bag type every
// wrapper module's namespace object is an instance of.
const namespaceClassName = "__weld_namespace"

// Assemble produces the final bundle module.
func (a *Assembler) Assemble() (*astmodel.Module, error) {
	var body []astmodel.Stmt
	if a.Options.Banner != "" {
		body = append(body, &astmodel.ExprStmt{Value: &astmodel.StrLit{Value: a.Options.Banner}})
	}

	future, stdlib, thirdParty := a.hoistedImports()
	body = append(body, future...)
	body = append(body, stdlib...)
	body = append(body, thirdParty...)

	wrapperIDs := a.wrapperModuleIDs()
	if len(wrapperIDs) > 0 {
		body = append(body, a.namespaceClassDef())
		for _, id := range wrapperIDs {
			initFn, err := a.wrapperInitFunc(id)
			if err != nil {
				return nil, err
			}
			body = append(body, initFn)
		}
	}

	for _, id := range a.Order {
		if id == a.Entry {
			continue
		}
		strategy := a.Strategies[id]
		if strategy != classify.StrategyInline {
			continue
		}
		stmts, err := a.inlinedBody(id)
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}

	entryStmts, err := a.entryBody()
	if err != nil {
		return nil, err
	}
	body = append(body, entryStmts...)

	return &astmodel.Module{Body: body}, nil
}

func (a *Assembler) wrapperModuleIDs() []module.ID {
	var ids []module.ID
	for _, id := range a.Order {
		if a.Strategies[id] == classify.StrategyWrapper {
			ids = append(ids, id)
		}
	}
	return ids
}

// hoistedImports collects every non-first-party import statement
// referenced anywhere in the bundle and splits it into the three hoisted
// groups spec.md §6's output format lists: combined `__future__` feature
// imports, then standard-library imports, then third-party imports, each
// of the latter two sorted lexicographically and deduplicated by their
// rendered form rather than collapsed to a bare `import <module>` (a
// `from X import a` and a `from X import b` are both kept; only an exact
// repeat of the same statement shape is dropped). Modules on the
// side-effect denylist are never hoisted here — their import stays where
// the rewriter left it, since pulling it to the top would change when
// its side effect runs relative to the rest of that module's body.
func (a *Assembler) hoistedImports() (future, stdlib, thirdParty []astmodel.Stmt) {
	stdlibNames := a.Options.Stdlib

	seenFuture := map[string]bool{}
	var futureFeatures []string

	seenStdlib := map[string]bool{}
	seenThirdParty := map[string]bool{}

	shouldHoist := func(path string) bool {
		if path == "" || unused.SideEffectModules[path] {
			return false
		}
		return a.Strategies[module.ID(path)] == classify.StrategyDependency || !a.isFirstParty(module.ID(path))
	}

	for _, id := range a.Order {
		if a.Strategies[id] == classify.StrategyDependency {
			continue
		}
		m, ok := a.Graph.Module(id)
		if !ok {
			continue
		}
		for _, item := range m.Items {
			switch s := item.Stmt.(type) {
			case *astmodel.FromImport:
				if s.Module == "__future__" {
					for _, alias := range s.Names {
						if !seenFuture[alias.Name] {
							seenFuture[alias.Name] = true
							futureFeatures = append(futureFeatures, alias.Name)
						}
					}
					continue
				}
				if !shouldHoist(s.Module) {
					continue
				}
				key := fromImportKey(s)
				dest, seen := &thirdParty, seenThirdParty
				if stdlibNames[s.Module] {
					dest, seen = &stdlib, seenStdlib
				}
				if !seen[key] {
					seen[key] = true
					*dest = append(*dest, s)
				}
			case *astmodel.Import:
				var stdlibAliases, thirdPartyAliases []astmodel.ImportAlias
				for _, alias := range s.Names {
					if !shouldHoist(alias.Name) {
						continue
					}
					if stdlibNames[alias.Name] {
						stdlibAliases = append(stdlibAliases, alias)
					} else {
						thirdPartyAliases = append(thirdPartyAliases, alias)
					}
				}
				if len(stdlibAliases) > 0 {
					stmt := &astmodel.Import{Names: stdlibAliases}
					key := importKey(stmt)
					if !seenStdlib[key] {
						seenStdlib[key] = true
						stdlib = append(stdlib, stmt)
					}
				}
				if len(thirdPartyAliases) > 0 {
					stmt := &astmodel.Import{Names: thirdPartyAliases}
					key := importKey(stmt)
					if !seenThirdParty[key] {
						seenThirdParty[key] = true
						thirdParty = append(thirdParty, stmt)
					}
				}
			}
		}
	}

	sort.Strings(futureFeatures)
	if len(futureFeatures) > 0 {
		aliases := make([]astmodel.ImportAlias, len(futureFeatures))
		for i, f := range futureFeatures {
			aliases[i] = astmodel.ImportAlias{Name: f}
		}
		future = []astmodel.Stmt{&astmodel.FromImport{Module: "__future__", Names: aliases}}
	}

	sortStmtsByKey(stdlib, importSortKey)
	sortStmtsByKey(thirdParty, importSortKey)
	return future, stdlib, thirdParty
}

// importSortKey is the lexicographic sort key for a hoisted import
// statement: its module path (for Import, the first and only alias
// group's dotted name; for FromImport, the Module field).
func importSortKey(stmt astmodel.Stmt) string {
	switch s := stmt.(type) {
	case *astmodel.Import:
		if len(s.Names) > 0 {
			return s.Names[0].Name
		}
	case *astmodel.FromImport:
		return s.Module
	}
	return ""
}

func sortStmtsByKey(stmts []astmodel.Stmt, key func(astmodel.Stmt) string) {
	sort.SliceStable(stmts, func(i, j int) bool {
		return key(stmts[i]) < key(stmts[j])
	})
}

func importKey(s *astmodel.Import) string {
	names := make([]string, len(s.Names))
	for i, a := range s.Names {
		names[i] = a.Name + ":" + a.Asname
	}
	sort.Strings(names)
	return "import:" + strings.Join(names, ",")
}

func fromImportKey(s *astmodel.FromImport) string {
	names := make([]string, len(s.Names))
	for i, a := range s.Names {
		names[i] = a.Name + ":" + a.Asname
	}
	sort.Strings(names)
	return "from:" + s.Module + ":" + strings.Join(names, ",")
}

func (a *Assembler) isFirstParty(id module.ID) bool {
	_, ok := a.Graph.Module(id)
	return ok
}

func (a *Assembler) namespaceClassDef() astmodel.Stmt {
	return &astmodel.ClassDef{Name: namespaceClassName, Body: []astmodel.Stmt{&astmodel.Pass{}}}
}

// wrapperInitFunc builds `def __weld_init_<mod>(): ...` which builds a
// namespace object, runs the module body with reads/writes directed at
// it, memoizes the result so re-entrant imports see the same object
// (spec.md's cycle-safety requirement), and returns it.
func (a *Assembler) wrapperInitFunc(id module.ID) (astmodel.Stmt, error) {
	m, ok := a.Graph.Module(id)
	if !ok {
		return nil, fmt.Errorf("wrapper module %s not found in graph", id)
	}
	nsVar := wrapperNamespaceVar(id)
	memoFlag := wrapperMemoFlag(id)

	rewriter := &rewrite.Rewriter{Strategies: a.Strategies, Renames: a.Renames}
	pkg := parentPackage(id, m.IsPackageInit)
	rewritten, needed := rewriter.Rewrite(id, liveStmts(m), pkg)
	rewritten = resolver.ApplyToStmts(a.Renames, id, rewritten)

	var fnBody []astmodel.Stmt
	fnBody = append(fnBody, &astmodel.If{
		Test: &astmodel.Name{Id: memoFlag},
		Body: []astmodel.Stmt{&astmodel.Return{Value: &astmodel.Name{Id: nsVar}}},
	})
	fnBody = append(fnBody, initCallsForNeeded(needed)...)
	fnBody = append(fnBody, &astmodel.Assign{
		Targets: []astmodel.Expr{&astmodel.Name{Id: nsVar}},
		Value:   &astmodel.Call{Func: &astmodel.Name{Id: namespaceClassName}},
	})
	fnBody = append(fnBody, &astmodel.Assign{
		Targets: []astmodel.Expr{&astmodel.Name{Id: memoFlag}},
		Value:   &astmodel.BoolLit{Value: true},
	})
	fnBody = append(fnBody, rewritten...)
	for _, name := range exportedNames(m) {
		fnBody = append(fnBody, &astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Attribute{Value: &astmodel.Name{Id: nsVar}, Attr: name}},
			Value:   &astmodel.Name{Id: resolvedName(a.Renames, id, name)},
		})
	}
	fnBody = append(fnBody, &astmodel.Return{Value: &astmodel.Name{Id: nsVar}})

	return &astmodel.FunctionDef{Name: wrapperInitName(id), Body: fnBody}, nil
}

func (a *Assembler) inlinedBody(id module.ID) ([]astmodel.Stmt, error) {
	m, ok := a.Graph.Module(id)
	if !ok {
		return nil, fmt.Errorf("inlined module %s not found in graph", id)
	}
	rewriter := &rewrite.Rewriter{Strategies: a.Strategies, Renames: a.Renames}
	pkg := parentPackage(id, m.IsPackageInit)
	rewritten, needed := rewriter.Rewrite(id, liveStmts(m), pkg)
	rewritten = resolver.ApplyToStmts(a.Renames, id, rewritten)

	var out []astmodel.Stmt
	out = append(out, initCallsForNeeded(needed)...)
	out = append(out, rewritten...)
	return out, nil
}

func (a *Assembler) entryBody() ([]astmodel.Stmt, error) {
	m, ok := a.Graph.Module(a.Entry)
	if !ok {
		return nil, fmt.Errorf("entry module %s not found in graph", a.Entry)
	}
	rewriter := &rewrite.Rewriter{Strategies: a.Strategies, Renames: a.Renames}
	rewritten, needed := rewriter.Rewrite(a.Entry, m.AST.Body, "")
	var out []astmodel.Stmt
	out = append(out, initCallsForNeeded(needed)...)
	out = append(out, rewritten...)
	return out, nil
}

func initCallsForNeeded(needed []module.ID) []astmodel.Stmt {
	var stmts []astmodel.Stmt
	for _, id := range needed {
		stmts = append(stmts, &astmodel.Assign{
			Targets: []astmodel.Expr{&astmodel.Name{Id: wrapperModuleVarAlias(id)}},
			Value:   &astmodel.Call{Func: &astmodel.Name{Id: wrapperInitName(id)}},
		})
	}
	return stmts
}

func liveStmts(m *module.Module) []astmodel.Stmt {
	dead := unused.Unused(m, nil)
	live := graph.LiveItems(m, dead)
	var stmts []astmodel.Stmt
	for _, item := range m.Items {
		if live[item.ID] {
			stmts = append(stmts, item.Stmt)
		}
	}
	return stmts
}

func exportedNames(m *module.Module) []string {
	if m.DunderAll != nil {
		names := append([]string(nil), m.DunderAll...)
		sort.Strings(names)
		return names
	}
	live := graph.LiveItems(m, unused.Unused(m, nil))
	names := map[string]bool{}
	for name, vs := range m.Vars {
		if live[vs.DeclaredBy] {
			names[name] = true
		}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func resolvedName(renames resolver.Renames, id module.ID, name string) string {
	if renamed, ok := renames[id][name]; ok {
		return renamed
	}
	return name
}

func parentPackage(id module.ID, isPackageInit bool) string {
	return rewrite.ParentPackage(id, isPackageInit)
}

func wrapperInitName(id module.ID) string      { return "__weld_init_" + sanitizeID(id) }
func wrapperNamespaceVar(id module.ID) string  { return "__weld_ns_" + sanitizeID(id) }
func wrapperMemoFlag(id module.ID) string      { return "__weld_done_" + sanitizeID(id) }
func wrapperModuleVarAlias(id module.ID) string { return wrapperNamespaceVar(id) }

func sanitizeID(id module.ID) string {
	s := string(id)
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out[i] = '_'
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}
