// Package discovery finds first-party source files under a project's
// configured source roots, reads and parses them concurrently, and
// classifies every import target a module mentions as first-party,
// standard-library, or third-party. File matching uses
// bmatcuk/doublestar/v4 so exclude patterns can use the same `**` glob
// shapes sentra's own build tooling accepts; concurrent reads use
// golang.org/x/sync/errgroup, the same bounded-fan-out primitive pyscn's
// analyzer reaches for when walking many files at once.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"weld/internal/astmodel"
	"weld/internal/hashing"
	"weld/internal/module"
)

// Parser turns raw source bytes into the AST shape astmodel defines.
// Production wiring supplies a real language parser; tests supply a
// stub. Kept as an interface so this package never needs to know how
// parsing actually happens (astmodel.go's own doc comment: that is an
// external collaborator's job).
type Parser interface {
	Parse(path string, src []byte) (*astmodel.Module, error)
}

// Classification is where an import target resolves to.
type Classification int

const (
	FirstParty Classification = iota
	StandardLibrary
	ThirdParty
)

// Classifier decides where a dotted import name resolves.
type Classifier interface {
	Classify(dotted string) Classification
}

// RootClassifier classifies a dotted name as first-party when a source
// root contains a matching file, standard-library when it is in a fixed
// allowlist, and third-party otherwise.
type RootClassifier struct {
	Roots   []string
	Stdlib  map[string]bool
}

// Classify implements Classifier.
func (c *RootClassifier) Classify(dotted string) Classification {
	top := dotted
	if i := strings.Index(dotted, "."); i >= 0 {
		top = dotted[:i]
	}
	if c.Stdlib[top] {
		return StandardLibrary
	}
	rel := strings.ReplaceAll(dotted, ".", string(filepath.Separator))
	for _, root := range c.Roots {
		if fileExists(filepath.Join(root, rel+".py")) || dirExists(filepath.Join(root, rel)) {
			return FirstParty
		}
	}
	return ThirdParty
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Options configures a discovery run.
type Options struct {
	SourceRoots     []string
	ExcludePatterns []string
	Parser          Parser
}

// Discover walks every source root, matches files against the exclude
// patterns, reads and parses them concurrently, and returns a populated
// module.Set keyed by dotted module name.
func Discover(ctx context.Context, opts Options) (*module.Set, error) {
	files, err := listSourceFiles(opts.SourceRoots, opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	set := module.NewSet()
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			src, err := os.ReadFile(f.absPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.absPath, err)
			}
			ast, err := opts.Parser.Parse(f.absPath, src)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", f.absPath, err)
			}
			m := module.NewModule(module.ID(f.dotted), f.absPath, ast, hashing.Content(src), f.isPackageInit)
			set.Add(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

type sourceFile struct {
	absPath       string
	dotted        string
	isPackageInit bool
}

// listSourceFiles enumerates every non-excluded source file under the
// given roots and derives each one's dotted module name from its path
// relative to the root it was found under.
func listSourceFiles(roots, excludes []string) ([]sourceFile, error) {
	var files []sourceFile
	seen := map[string]bool{}
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		matches, err := doublestar.Glob(os.DirFS(absRoot), "**/*.py")
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", absRoot, err)
		}
		sort.Strings(matches)
		for _, rel := range matches {
			if excluded(rel, excludes) {
				continue
			}
			abs := filepath.Join(absRoot, rel)
			if seen[abs] {
				continue
			}
			seen[abs] = true
			dotted, isInit := dottedName(rel)
			files = append(files, sourceFile{absPath: abs, dotted: dotted, isPackageInit: isInit})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].dotted < files[j].dotted })
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// dottedName converts a source-relative path into a dotted module name,
// collapsing an `__init__.py` leaf into its containing package's name
// and reporting whether that collapse happened.
func dottedName(rel string) (string, bool) {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".py")
	parts := strings.Split(rel, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
		return strings.Join(parts, "."), true
	}
	return strings.Join(parts, "."), false
}
