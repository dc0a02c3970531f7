// Package builtins supplies the reserved-name tables the symbol resolver
// (spec.md §4.3) must never rename a declaration into: language keywords
// and builtin callables, keyed by the language_version a project pins in
// weld.yaml since the available builtin set can change release to
// release.
package builtins

// Keywords is the reserved-word set common to every supported language
// version.
var Keywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true, "None": true, "True": true, "False": true,
}

// baseBuiltins is the builtin callable/type set shared across versions.
var baseBuiltins = map[string]bool{
	"abs": true, "all": true, "any": true, "bool": true, "bytearray": true,
	"bytes": true, "callable": true, "chr": true, "classmethod": true,
	"complex": true, "dict": true, "dir": true, "divmod": true, "enumerate": true,
	"eval": true, "exec": true, "filter": true, "float": true, "format": true,
	"frozenset": true, "getattr": true, "globals": true, "hasattr": true,
	"hash": true, "help": true, "hex": true, "id": true, "input": true,
	"int": true, "isinstance": true, "issubclass": true, "iter": true,
	"len": true, "list": true, "locals": true, "map": true, "max": true,
	"min": true, "next": true, "object": true, "oct": true, "open": true,
	"ord": true, "pow": true, "print": true, "property": true, "range": true,
	"repr": true, "reversed": true, "round": true, "set": true, "setattr": true,
	"slice": true, "sorted": true, "staticmethod": true, "str": true, "sum": true,
	"super": true, "tuple": true, "type": true, "vars": true, "zip": true,
	"Exception": true, "ValueError": true, "TypeError": true, "KeyError": true,
	"IndexError": true, "StopIteration": true, "RuntimeError": true,
}

// versionExtras lists, per supported version, every builtin that version
// has beyond baseBuiltins.
var versionExtras = map[string][]string{
	"3.8":    {},
	"3.10":   {"aiter", "anext"},
	"3.11":   {"aiter", "anext", "ExceptionGroup"},
	"latest": {"aiter", "anext", "ExceptionGroup"},
}

// Builtins returns the builtin-name set for a language_version string,
// falling back to the "latest" set for an unrecognized version rather than
// failing the build outright — an unknown version is far more likely to
// be a newer release than a typo, and erring conservative (treating a
// name as reserved when it's unsure) is the safe direction.
func Builtins(languageVersion string) map[string]bool {
	out := make(map[string]bool, len(baseBuiltins))
	for k := range baseBuiltins {
		out[k] = true
	}
	extras, ok := versionExtras[languageVersion]
	if !ok {
		extras = versionExtras["latest"]
	}
	for _, extra := range extras {
		out[extra] = true
	}
	return out
}

// Reserved returns the full set of names the resolver must not assign as
// a synthetic rename: keywords plus the version's builtins.
func Reserved(languageVersion string) map[string]bool {
	out := Builtins(languageVersion)
	for k := range Keywords {
		out[k] = true
	}
	return out
}
