package rewrite

import (
	"weld/internal/astmodel"
	"weld/internal/classify"
	"weld/internal/module"
	"weld/internal/resolver"
)

// AccessPath tells the bundle assembler how to reach a name that used to
// come from an import, once that import statement itself has been
// dropped (spec.md §4.5's transform matrix: every import becomes either
// nothing — the name already exists in the flattened scope — or a
// reference into the wrapper registry, or is preserved verbatim).
type AccessPath struct {
	// Kind mirrors the target module's classify.Strategy.
	Kind classify.Strategy
	// LocalName is the name to read directly when Kind is
	// StrategyInline: the resolver's rename if the target had a
	// collision, otherwise the original bound name.
	LocalName string
	// ModuleID is set when Kind is StrategyWrapper: the wrapper's
	// synthetic init function must have run before ModuleID.Attr is
	// read off its registry entry.
	ModuleID module.ID
	Attr     string
}

// Rewriter rewrites one module's import statements according to the
// strategy chosen for every module it can depend on.
type Rewriter struct {
	Strategies map[module.ID]classify.Strategy
	Renames    resolver.Renames
	Modules    map[module.ID]*module.Module
}

// Rewrite resolves m's relative imports, drops the import statements for
// every Inline/Wrapper target, substitutes their bound names at every
// read site with the right AccessPath, and returns the transformed
// statement list (operating on a clone the caller already owns — see
// resolver.Apply) plus the wrapper modules it now needs initialized
// before m's own body runs, in the order they were first referenced.
func (r *Rewriter) Rewrite(id module.ID, body []astmodel.Stmt, currentPackage string) ([]astmodel.Stmt, []module.ID) {
	sub := map[string]AccessPath{}
	var neededWrappers []module.ID
	seenWrapper := map[module.ID]bool{}

	var out []astmodel.Stmt
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *astmodel.Import:
			kept := r.rewriteImport(s, sub, &neededWrappers, seenWrapper)
			out = append(out, kept...)
		case *astmodel.FromImport:
			target, err := r.resolveTarget(s, currentPackage)
			if err != nil || target == "" {
				out = append(out, s)
				continue
			}
			kept := r.rewriteFromImport(s, target, sub, &neededWrappers, seenWrapper)
			out = append(out, kept...)
		default:
			out = append(out, stmt)
		}
	}

	onName := func(name string) (astmodel.Expr, bool) {
		ap, ok := sub[name]
		if !ok {
			return nil, false
		}
		switch ap.Kind {
		case classify.StrategyInline:
			return &astmodel.Name{Id: ap.LocalName}, true
		case classify.StrategyWrapper:
			return &astmodel.Attribute{
				Value: &astmodel.Name{Id: wrapperModuleVar(ap.ModuleID)},
				Attr:  ap.Attr,
			}, true
		default:
			return nil, false
		}
	}
	rewritten := astmodel.RewriteStmts(out, onName, false)
	return rewritten, neededWrappers
}

// strategyOf looks up the strategy chosen for target, defaulting to
// StrategyDependency when target was never added to r.Strategies — every
// stdlib/third-party import target, since only first-party graph nodes
// are classified. Without this default, the zero value of
// classify.Strategy (StrategyInline) would be read back for any import
// the bundler doesn't own, wrongly dropping it from the output.
func (r *Rewriter) strategyOf(target module.ID) classify.Strategy {
	if s, ok := r.Strategies[target]; ok {
		return s
	}
	return classify.StrategyDependency
}

func (r *Rewriter) resolveTarget(s *astmodel.FromImport, currentPackage string) (module.ID, error) {
	id, err := ResolveRelative(currentPackage, s.Level, s.Module)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Rewriter) rewriteImport(s *astmodel.Import, sub map[string]AccessPath, needed *[]module.ID, seen map[module.ID]bool) []astmodel.Stmt {
	var remaining []astmodel.ImportAlias
	for _, alias := range s.Names {
		target := module.ID(alias.Name)
		strategy := r.strategyOf(target)
		bound := alias.Name
		if alias.Asname != "" {
			bound = alias.Asname
		}
		switch strategy {
		case classify.StrategyInline:
			sub[bound] = AccessPath{Kind: classify.StrategyInline, LocalName: wrapperModuleVar(target)}
			// An inlined module imported as a whole module object
			// still needs its own synthetic namespace; classify
			// only picks StrategyInline when nothing imports it
			// this way, so this path is defensive.
		case classify.StrategyWrapper:
			r.markNeeded(target, needed, seen)
			sub[bound] = AccessPath{Kind: classify.StrategyWrapper, ModuleID: target}
		default:
			remaining = append(remaining, alias)
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return []astmodel.Stmt{&astmodel.Import{Names: remaining}}
}

func (r *Rewriter) rewriteFromImport(s *astmodel.FromImport, target module.ID, sub map[string]AccessPath, needed *[]module.ID, seen map[module.ID]bool) []astmodel.Stmt {
	strategy := r.strategyOf(target)
	if strategy == classify.StrategyDependency {
		return []astmodel.Stmt{&astmodel.FromImport{Module: string(target), Level: 0, Names: s.Names}}
	}

	if strategy == classify.StrategyWrapper {
		r.markNeeded(target, needed, seen)
	}

	for _, alias := range s.Names {
		bound := alias.Name
		if alias.Asname != "" {
			bound = alias.Asname
		}
		switch strategy {
		case classify.StrategyInline:
			local := alias.Name
			if renamed, ok := r.Renames[target][alias.Name]; ok {
				local = renamed
			}
			sub[bound] = AccessPath{Kind: classify.StrategyInline, LocalName: local}
		case classify.StrategyWrapper:
			sub[bound] = AccessPath{Kind: classify.StrategyWrapper, ModuleID: target, Attr: alias.Name}
		}
	}
	return nil
}

func (r *Rewriter) markNeeded(target module.ID, needed *[]module.ID, seen map[module.ID]bool) {
	if seen[target] {
		return
	}
	seen[target] = true
	*needed = append(*needed, target)
}

// wrapperModuleVar is the local variable name the bundle assembler binds
// a wrapper module's namespace object to, derived deterministically from
// the module's dotted id.
func wrapperModuleVar(id module.ID) string {
	return "__weld_ns_" + sanitize(string(id))
}

func sanitize(id string) string {
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c == '.' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}
