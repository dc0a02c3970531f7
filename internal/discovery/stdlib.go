package discovery

import "weld/internal/unused"

// DefaultStdlib lists the standard-library top-level module names the
// classifier treats as StandardLibrary rather than ThirdParty when no
// project override is configured. It deliberately only needs the
// top-level name: `import os.path` classifies on "os". The side-effect
// denylist (antigravity, this, site, turtle, ...) is still part of the
// standard library for classification purposes, so it's folded in from
// unused.SideEffectModules rather than re-listed here.
var DefaultStdlib = buildDefaultStdlib()

func buildDefaultStdlib() map[string]bool {
	names := []string{
		"abc", "argparse", "array", "ast", "asyncio", "base64", "bisect",
		"builtins", "calendar", "collections", "contextlib", "copy", "csv",
		"dataclasses", "datetime", "decimal", "difflib", "enum", "errno",
		"functools", "gc", "getpass", "glob", "gzip", "hashlib", "heapq",
		"hmac", "html", "http", "importlib", "inspect", "io", "ipaddress",
		"itertools", "json", "logging", "math", "mimetypes", "multiprocessing",
		"operator", "os", "pathlib", "pickle", "pprint", "queue",
		"random", "re", "secrets", "shutil", "signal", "socket", "sqlite3",
		"ssl", "stat", "statistics", "string", "struct", "subprocess", "sys",
		"tempfile", "textwrap", "threading", "time", "traceback", "types",
		"typing", "unicodedata", "unittest", "urllib", "uuid", "warnings",
		"weakref", "xml", "zipfile", "zlib",
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for n := range unused.SideEffectModules {
		set[n] = true
	}
	return set
}
