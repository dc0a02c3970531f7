package commands

import (
	"context"
	"fmt"

	"weld/internal/classify"
	"weld/internal/config"
	"weld/internal/discovery"
	"weld/internal/graph"
	"weld/internal/module"
	"weld/internal/pyfront"
)

// loadGraph runs discovery and builds the dependency graph for cfg,
// the same first half of internal/bundler.Session.Run, reused here by
// the commands (graph, diagnostics, requirements) that inspect the
// project without assembling a bundle.
func loadGraph(ctx context.Context, cfg *config.Config) (*graph.Graph, *module.Set, error) {
	set, err := discovery.Discover(ctx, discovery.Options{
		SourceRoots:     cfg.SourceRoots,
		ExcludePatterns: cfg.ExcludePatterns,
		Parser:          pyfront.LanguageParser{},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discovering sources: %w", err)
	}

	entryID := module.ID(cfg.Entry)
	if _, ok := set.Get(entryID); !ok {
		return nil, nil, fmt.Errorf("entry module %q not found under configured source roots", cfg.Entry)
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
	return g, set, nil
}

// classifyAll runs the strategy classifier over every module in g's
// topological order, forcing the entry module inline the way
// internal/bundler.Session.Run does.
func classifyAll(g *graph.Graph, order []module.ID, entry module.ID, set *module.Set) map[module.ID]classify.Strategy {
	cycleOf := map[module.ID]graph.CycleKind{}
	for _, scc := range g.StronglyConnectedComponents() {
		kind := g.ClassifyCycle(scc)
		if kind == graph.CycleNotACycle {
			continue
		}
		for _, id := range scc {
			cycleOf[id] = kind
		}
	}
	firstParty := map[module.ID]bool{}
	for _, id := range set.IDs() {
		firstParty[id] = true
	}
	strategies := map[module.ID]classify.Strategy{}
	for _, id := range order {
		strategies[id] = classify.Classify(g, id, cycleOf, firstParty)
	}
	strategies[entry] = classify.StrategyInline
	return strategies
}
