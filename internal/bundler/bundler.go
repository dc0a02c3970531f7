// Package bundler orchestrates the full pipeline: discovery, the module
// graph, the unused-import analyzer, the strategy classifier, the symbol
// resolver, the import rewriter, and the bundle assembler. It plays the
// role sentra's ImportResolver.ResolveProject played for the interpreter
// — a single entry point that walks from the program's entry file and
// hands back something ready to run — generalized from "resolve and
// link for execution" to "resolve and re-emit as one source file".
package bundler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"weld/internal/assemble"
	"weld/internal/builtins"
	"weld/internal/cache"
	"weld/internal/classify"
	"weld/internal/config"
	"weld/internal/diagnostics"
	"weld/internal/discovery"
	"weld/internal/graph"
	"weld/internal/module"
	"weld/internal/resolver"
)

// Session is one bundling run. NewSession gives it a fresh random ID;
// nothing in the pipeline attaches that ID to diagnostics or cache
// entries.
type Session struct {
	ID          string
	Config      *config.Config
	Diagnostics *diagnostics.Collector
}

// NewSession creates a session for a bundle run with the given config.
func NewSession(cfg *config.Config) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Config:      cfg,
		Diagnostics: diagnostics.NewCollector(),
	}
}

// Result is everything a completed bundle run produced.
type Result struct {
	Bundle     []byte
	ModuleIDs  []module.ID
	Strategies map[module.ID]classify.Strategy
}

// Run executes the full pipeline against sources parsed by parser and
// returns the assembled bundle. It fails fast on an unresolvable cycle
// (spec.md §5: the bundler aborts rather than emitting output it cannot
// guarantee is correct). A relative import that climbs above the
// top-level package does not fail the run: the rewriter leaves that
// statement in the output unchanged.
func (s *Session) Run(ctx context.Context, parser discovery.Parser, printer Printer) (*Result, error) {
	cfg := s.Config

	set, err := discovery.Discover(ctx, discovery.Options{
		SourceRoots:     cfg.SourceRoots,
		ExcludePatterns: cfg.ExcludePatterns,
		Parser:          parser,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering sources: %w", err)
	}

	entryID := module.ID(cfg.Entry)
	if _, ok := set.Get(entryID); !ok {
		return nil, fmt.Errorf("entry module %q not found under configured source roots", cfg.Entry)
	}

	if cfg.CacheDir != "" {
		if err := s.recordCache(set); err != nil {
			s.Diagnostics.Warnf("cache-unavailable", "", 0, "incremental cache disabled: %v", err)
		}
	}

	classifier := &discovery.RootClassifier{Roots: cfg.SourceRoots, Stdlib: discovery.DefaultStdlib}
	g := graph.New(entryID)
	for _, id := range set.IDs() {
		m, _ := set.Get(id)
		g.AddModule(m)
	}
	for _, id := range set.IDs() {
		m, _ := set.Get(id)
		for _, item := range m.Items {
			for _, path := range item.ImportedNames {
				if classifier.Classify(path) == discovery.FirstParty {
					kind := graph.DependencyImport
					if item.Kind == module.ItemFromImport {
						kind = graph.DependencyFromImport
					}
					g.AddDependency(id, module.ID(path), kind)
				}
			}
		}
	}

	order := g.TopologicalSort()

	cycleOf := map[module.ID]graph.CycleKind{}
	for _, scc := range g.StronglyConnectedComponents() {
		kind := g.ClassifyCycle(scc)
		if kind == graph.CycleNotACycle {
			continue
		}
		for _, id := range scc {
			cycleOf[id] = kind
		}
		if kind == graph.CycleUnresolvable {
			s.Diagnostics.Errorf("unresolvable-cycle", string(scc[0]), 0,
				"modules %v form an import cycle that reads a module-level constant across the cycle boundary; this cannot be reordered", scc)
			return nil, fmt.Errorf("unresolvable import cycle: %v", scc)
		}
		s.Diagnostics.Warnf("wrapper-cycle", string(scc[0]), 0,
			"modules %v form an import cycle resolved via deferred wrapper initialization", scc)
	}

	firstParty := map[module.ID]bool{}
	for _, id := range set.IDs() {
		firstParty[id] = true
	}

	strategies := map[module.ID]classify.Strategy{}
	for _, id := range order {
		strategies[id] = classify.Classify(g, id, cycleOf, firstParty)
	}
	strategies[entryID] = classify.StrategyInline

	reserved := builtins.Reserved(cfg.LanguageVersion)
	renames := resolver.Resolve(g, order, entryID, strategies, reserved)

	asm := &assemble.Assembler{
		Graph:      g,
		Strategies: strategies,
		Renames:    renames,
		Order:      order,
		Entry:      entryID,
		Options:    assemble.Options{Banner: cfg.Banner, Stdlib: discovery.DefaultStdlib},
	}
	bundleAST, err := asm.Assemble()
	if err != nil {
		return nil, fmt.Errorf("assembling bundle: %w", err)
	}

	out, err := printer.Print(bundleAST)
	if err != nil {
		return nil, fmt.Errorf("printing bundle: %w", err)
	}

	return &Result{Bundle: out, ModuleIDs: order, Strategies: strategies}, nil
}

// recordCache consults the incremental resolution cache (spec.md §6) for
// every discovered module, warning when a file's content changed since
// the last run was recorded, then stores the current hashes for next
// time. The cache only informs diagnostics here; discovery itself always
// reparses, since pyfront has no serialized-AST format to load a hit
// from — a future front end that does could skip reparsing for files
// Stale reports false.
func (s *Session) recordCache(set *module.Set) error {
	c, err := cache.Open(filepath.Join(s.Config.CacheDir, "weld-cache.sqlite"))
	if err != nil {
		return err
	}
	defer c.Close()

	now := time.Now().Unix()
	for _, id := range set.IDs() {
		m, _ := set.Get(id)
		stale, err := c.Stale(m.AbsPath, m.ContentHash)
		if err != nil {
			return err
		}
		if stale {
			s.Diagnostics.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityInfo,
				Rule:     "cache-miss",
				File:     m.AbsPath,
				Message:  "source changed since the last recorded build",
			})
		}
		if err := c.Store(cache.Entry{AbsPath: m.AbsPath, ContentHash: m.ContentHash, ModuleID: string(id)}, now); err != nil {
			return err
		}
	}
	return nil
}
