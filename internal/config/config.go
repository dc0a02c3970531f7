// Package config loads weld.yaml, the bundler's project configuration
// file, via gopkg.in/yaml.v3 — the same config-loading library sentra's
// own tooling favors for its human-edited YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of options spec.md §6 lets a project pin.
type Config struct {
	// Entry is the dotted module name the bundle starts from; a file
	// path is not accepted.
	Entry string `yaml:"entry"`

	// LanguageVersion pins which builtin/keyword table the resolver
	// consults when choosing reserved names.
	LanguageVersion string `yaml:"language_version"`

	// PreserveComments is read from weld.yaml but not consulted: the
	// front end discards source comments whatever its value.
	PreserveComments bool `yaml:"preserve_comments"`

	// PreserveTypeHints is read from weld.yaml but not consulted:
	// annotation expressions on parameters, return types and annotated
	// assignments are kept whatever its value.
	PreserveTypeHints bool `yaml:"preserve_type_hints"`

	// SourceRoots are filesystem roots searched for first-party
	// modules, in priority order.
	SourceRoots []string `yaml:"source_roots"`

	// ExcludePatterns are doublestar globs excluded from discovery
	// (test files, fixtures, generated code).
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// SideEffectModules is read from weld.yaml but not passed on: the
	// unused-import analyzer and the assembler use only the built-in
	// unused.SideEffectModules denylist.
	SideEffectModules []string `yaml:"side_effect_modules"`

	// OutputPath is where the assembled bundle is written; "-" or ""
	// means stdout.
	OutputPath string `yaml:"output_path"`

	// CacheDir is where the incremental resolution cache's sqlite file
	// lives; empty disables the cache.
	CacheDir string `yaml:"cache_dir"`

	// Banner is an optional first-line marker emitted into the bundle.
	Banner string `yaml:"banner"`
}

// Default returns the configuration used when no weld.yaml is present.
func Default() *Config {
	return &Config{
		LanguageVersion: "latest",
		SourceRoots:     []string{"."},
		ExcludePatterns: []string{"**/test_*.py", "**/*_test.py", "**/__pycache__/**"},
	}
}

// Load reads and parses a weld.yaml file at path, layering it over the
// defaults so a project only has to specify the fields it overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Entry == "" {
		return nil, fmt.Errorf("config %s: entry is required", path)
	}
	return cfg, nil
}
