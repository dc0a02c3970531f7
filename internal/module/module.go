// Package module defines the data model shared by every bundling stage:
// the parsed Module, the per-statement Item it decomposes into, and the
// VarState bookkeeping the graph keeps for each name a module declares.
// It plays the role sentra's ModuleLoader/ModuleNode pair played for the
// interpreter: a single place that owns "what is a module" so the graph,
// resolver, classifier, rewriter and assembler all agree on it.
package module

import (
	"sync"

	"weld/internal/astmodel"
)

// ID identifies a module uniquely within a bundle by its dotted import
// name (e.g. "pkg.sub.mod").
type ID string

// ItemKind classifies a single top-level statement for dependency and
// strategy purposes.
type ItemKind int

const (
	ItemOther ItemKind = iota
	ItemFunctionDef
	ItemClassDef
	ItemAssign
	ItemAnnAssign
	ItemImport
	ItemFromImport
	ItemIf
	ItemTry
	ItemExprStmt
)

// Item is one top-level statement of a module, annotated with the facts
// the graph, unused-import analyzer and resolver all need: which names it
// declares, which it reads immediately vs. only once a nested function or
// class body actually runs, which it writes, and whether it carries a
// side effect that forbids dropping it even when unused.
type Item struct {
	ID ItemID

	Kind ItemKind
	Stmt astmodel.Stmt

	// DeclaredNames are the module-level bindings this item introduces
	// (function/class name, assignment targets, import-bound names).
	DeclaredNames []string

	// ReadNames are names this item reads when the module executes top
	// to bottom, in statement order.
	ReadNames map[string]bool

	// EventualReadNames are names only read once a function body nested
	// in this item is later called — they do not count as
	// "used at import time" but do count for dead-code retention.
	EventualReadNames map[string]bool

	// WrittenNames are names this item assigns to (module-level only;
	// function-local assignments are not tracked here).
	WrittenNames map[string]bool

	// ImportedNames maps a name this item binds via import to the
	// dotted module path it came from (the value for `import x` is x
	// itself; for `from a.b import c as d` it is "a.b" keyed by "d").
	ImportedNames map[string]string

	// HasSideEffect marks an item the unused-import analyzer and
	// tree-shaker must never drop solely because nothing reads its
	// bindings: class definitions and expression statements other than
	// a docstring (spec.md §4.2, §4.6). Imports of modules on the
	// side-effect denylist are not marked here; the unused-import
	// analyzer keeps them instead.
	HasSideEffect bool
}

// ItemID indexes an Item within its owning Module's Items slice.
type ItemID int

// VarState tracks, for one declared name within a module, which item
// declared it and which items read or write it — the bookkeeping the
// unused-import analyzer (spec.md §4.2) and the dead-code pruning pass in
// the bundle assembler (spec.md §4.6) both consult before deciding whether
// a binding is still live.
type VarState struct {
	DeclaredBy ItemID
	ReadBy     []ItemID
	WrittenBy  []ItemID
}

// Module is one source file resolved into the bundle graph.
type Module struct {
	ID ID

	// AbsPath is the resolved filesystem path the source was read from.
	AbsPath string

	// AST is the parsed module, never mutated after construction; any
	// stage that needs to transform it works on an astmodel.CloneModule
	// of it instead (spec.md §5).
	AST *astmodel.Module

	// ContentHash is a content hash of the raw source bytes, used for
	// the incremental build cache. Synthetic names for wrapped modules
	// are derived from the module ID alone and do not include it.
	ContentHash string

	// IsPackageInit marks a module loaded from an __init__.py-shaped
	// file: it is never tree-shaken and its declared names are treated
	// as always read (spec.md §4.2, §4.4).
	IsPackageInit bool

	// DunderAll is the literal string list assigned to `__all__` at
	// module scope, if any. A nil slice means no such assignment was
	// found; an empty non-nil slice means `__all__ = []` was found.
	DunderAll []string

	Items []*Item

	// Vars indexes VarState by declared name for this module.
	Vars map[string]*VarState
}

// NewModule builds a Module's Items/Vars bookkeeping from a parsed AST.
// It classifies each top-level statement, records its declared/read/
// written names via astmodel.NameUses, and folds import bindings into
// ImportedNames so later stages don't need to special-case Import vs.
// FromImport again.
func NewModule(id ID, absPath string, ast *astmodel.Module, contentHash string, isPackageInit bool) *Module {
	m := &Module{
		ID:            id,
		AbsPath:       absPath,
		AST:           ast,
		ContentHash:   contentHash,
		IsPackageInit: isPackageInit,
		Vars:          map[string]*VarState{},
	}
	for i, stmt := range ast.Body {
		item := buildItem(ItemID(i), stmt)
		m.Items = append(m.Items, item)
		m.indexItem(item)
		if names, ok := dunderAllAssignment(stmt); ok {
			m.DunderAll = names
		}
	}
	return m
}

func (m *Module) indexItem(item *Item) {
	for _, name := range item.DeclaredNames {
		vs := m.Vars[name]
		if vs == nil {
			vs = &VarState{}
			m.Vars[name] = vs
		}
		vs.DeclaredBy = item.ID
	}
	for name := range item.ReadNames {
		m.recordRead(name, item.ID)
	}
	for name := range item.EventualReadNames {
		m.recordRead(name, item.ID)
	}
	for name := range item.WrittenNames {
		vs := m.Vars[name]
		if vs == nil {
			vs = &VarState{}
			m.Vars[name] = vs
		}
		vs.WrittenBy = append(vs.WrittenBy, item.ID)
	}
}

func (m *Module) recordRead(name string, id ItemID) {
	vs := m.Vars[name]
	if vs == nil {
		vs = &VarState{}
		m.Vars[name] = vs
	}
	vs.ReadBy = append(vs.ReadBy, id)
}

func buildItem(id ItemID, stmt astmodel.Stmt) *Item {
	item := &Item{
		ID:                id,
		Stmt:              stmt,
		ReadNames:         map[string]bool{},
		EventualReadNames: map[string]bool{},
		WrittenNames:      map[string]bool{},
		ImportedNames:     map[string]string{},
	}

	immediate, deferred := astmodel.NameUses([]astmodel.Stmt{stmt})
	item.ReadNames = immediate
	item.EventualReadNames = deferred

	switch s := stmt.(type) {
	case *astmodel.FunctionDef:
		item.Kind = ItemFunctionDef
		item.DeclaredNames = []string{s.Name}
	case *astmodel.ClassDef:
		item.Kind = ItemClassDef
		item.DeclaredNames = []string{s.Name}
		item.HasSideEffect = true // class bodies execute at definition time
	case *astmodel.Assign:
		item.Kind = ItemAssign
		item.DeclaredNames = assignedNames(s.Targets)
		item.WrittenNames = toSet(item.DeclaredNames)
	case *astmodel.AnnAssign:
		item.Kind = ItemAnnAssign
		if nm, ok := s.Target.(*astmodel.Name); ok {
			item.DeclaredNames = []string{nm.Id}
			item.WrittenNames = toSet(item.DeclaredNames)
		}
	case *astmodel.Import:
		item.Kind = ItemImport
		for _, alias := range s.Names {
			bound := importBinding(alias)
			item.DeclaredNames = append(item.DeclaredNames, bound)
			item.ImportedNames[bound] = alias.Name
		}
	case *astmodel.FromImport:
		item.Kind = ItemFromImport
		for _, alias := range s.Names {
			bound := alias.Name
			if alias.Asname != "" {
				bound = alias.Asname
			}
			if bound == "*" {
				continue
			}
			item.DeclaredNames = append(item.DeclaredNames, bound)
			item.ImportedNames[bound] = s.Module
		}
	case *astmodel.If:
		item.Kind = ItemIf
	case *astmodel.Try:
		item.Kind = ItemTry
	case *astmodel.ExprStmt:
		item.Kind = ItemExprStmt
		if !isDocstring(s.Value) {
			item.HasSideEffect = true
		}
	default:
		item.Kind = ItemOther
	}
	return item
}

// importBinding returns the name `import a.b.c [as x]` binds at module
// scope: the alias if given, otherwise the first dotted component, since
// `import a.b.c` binds only `a` (with `a.b.c` reachable through attribute
// access) unless aliased.
func importBinding(alias astmodel.ImportAlias) string {
	if alias.Asname != "" {
		return alias.Asname
	}
	name := alias.Name
	for i, r := range name {
		if r == '.' {
			return name[:i]
		}
	}
	return name
}

func assignedNames(targets []astmodel.Expr) []string {
	var names []string
	var collect func(astmodel.Expr)
	collect = func(e astmodel.Expr) {
		switch t := e.(type) {
		case *astmodel.Name:
			names = append(names, t.Id)
		case *astmodel.Tuple:
			for _, el := range t.Elts {
				collect(el)
			}
		case *astmodel.List:
			for _, el := range t.Elts {
				collect(el)
			}
		case *astmodel.Starred:
			collect(t.Value)
		}
	}
	for _, t := range targets {
		collect(t)
	}
	return names
}

func toSet(names []string) map[string]bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return set
}

func isDocstring(e astmodel.Expr) bool {
	_, ok := e.(*astmodel.StrLit)
	return ok
}

// dunderAllAssignment recognizes `__all__ = [...]` / `__all__ = (...)` at
// module scope and returns the literal string elements.
func dunderAllAssignment(stmt astmodel.Stmt) ([]string, bool) {
	assign, ok := stmt.(*astmodel.Assign)
	if !ok || len(assign.Targets) != 1 {
		return nil, false
	}
	nm, ok := assign.Targets[0].(*astmodel.Name)
	if !ok || nm.Id != "__all__" {
		return nil, false
	}
	var elts []astmodel.Expr
	switch v := assign.Value.(type) {
	case *astmodel.List:
		elts = v.Elts
	case *astmodel.Tuple:
		elts = v.Elts
	default:
		return nil, false
	}
	names := make([]string, 0, len(elts))
	for _, el := range elts {
		if s, ok := el.(*astmodel.StrLit); ok {
			names = append(names, s.Value)
		}
	}
	return names, true
}

// Set is a concurrency-safe registry of resolved modules, indexed by ID.
// The discovery stage populates it from potentially-parallel file reads
// (spec.md §5 concurrency model); every later stage only reads it.
type Set struct {
	mu      sync.RWMutex
	modules map[ID]*Module
}

// NewSet creates an empty module set.
func NewSet() *Set {
	return &Set{modules: map[ID]*Module{}}
}

// Add registers m, keyed by its ID.
func (s *Set) Add(m *Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modules == nil {
		s.modules = map[ID]*Module{}
	}
	s.modules[m.ID] = m
}

// Get returns the module with the given ID, if present.
func (s *Set) Get(id ID) (*Module, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[id]
	return m, ok
}

// IDs returns every registered module ID, unordered.
func (s *Set) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ID, 0, len(s.modules))
	for id := range s.modules {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many modules are registered.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modules)
}
