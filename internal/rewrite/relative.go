// Package rewrite implements the import rewriter (spec.md §4.5): it
// resolves relative imports to absolute dotted module names, then
// rewrites every import statement according to the target module's
// classified strategy — dropped and inlined, dropped and routed through
// a wrapper's init call, or left untouched for a dependency.
package rewrite

import (
	"strings"

	bundleerrors "weld/internal/errors"
	"weld/internal/module"
)

// ResolveRelative turns a `from .mod import x` / `from ..pkg.mod import x`
// style relative import into the absolute dotted module name it refers
// to. currentPackage is the dotted package containing the importing
// module (itself, for a package's __init__.py; its parent package for a
// plain module). level is the number of leading dots; an empty module
// string with level == 1 means `from . import x` (import of a sibling
// name in the current package itself).
func ResolveRelative(currentPackage string, level int, mod string) (module.ID, error) {
	if level == 0 {
		if mod == "" {
			return "", bundleerrors.Newf(bundleerrors.InvalidRelativeImport, "absolute import must name a module")
		}
		return module.ID(mod), nil
	}

	parts := []string{}
	if currentPackage != "" {
		parts = strings.Split(currentPackage, ".")
	}
	// one leading dot refers to the current package itself, so it
	// consumes zero path components beyond what currentPackage already
	// is; each additional dot climbs one more package level.
	climb := level - 1
	if climb > len(parts) {
		return "", bundleerrors.Newf(bundleerrors.InvalidRelativeImport,
			"relative import climbs above the top-level package: %d dots from %q", level, currentPackage)
	}
	base := parts[:len(parts)-climb]

	if mod == "" {
		return module.ID(strings.Join(base, ".")), nil
	}
	full := append(append([]string{}, base...), strings.Split(mod, ".")...)
	return module.ID(strings.Join(full, ".")), nil
}

// ParentPackage returns the dotted package containing id: itself if id is
// a package __init__, otherwise id's own parent.
func ParentPackage(id module.ID, isPackageInit bool) string {
	if isPackageInit {
		return string(id)
	}
	s := string(id)
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return ""
	}
	return s[:idx]
}
