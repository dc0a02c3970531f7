// Package cache implements the incremental resolution cache (spec.md §6
// incremental builds): it remembers, per source file, the content hash a
// prior bundle run last saw and the dotted module name it resolved to,
// so a rerun can tell which files changed since then. The bundler uses
// that only to report cache-miss diagnostics; every file is still
// re-parsed and re-graphed. Storage is a single modernc.org/sqlite database file, the
// same pure-Go sqlite driver sentra's own persistence layer is built on
// (no cgo, so the bundler stays a single static binary).
package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache is a handle to the incremental build cache's sqlite database.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS resolved_modules (
	abs_path     TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	module_id    TEXT NOT NULL,
	updated_at   INTEGER NOT NULL
);
`

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Entry is one cached resolution result.
type Entry struct {
	AbsPath     string
	ContentHash string
	ModuleID    string
}

// Lookup returns the cached entry for absPath, if present.
func (c *Cache) Lookup(absPath string) (Entry, bool, error) {
	row := c.db.QueryRow(`SELECT abs_path, content_hash, module_id FROM resolved_modules WHERE abs_path = ?`, absPath)
	var e Entry
	err := row.Scan(&e.AbsPath, &e.ContentHash, &e.ModuleID)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("looking up cache entry for %s: %w", absPath, err)
	}
	return e, true, nil
}

// Store records (or replaces) the resolution result for absPath.
func (c *Cache) Store(e Entry, updatedAt int64) error {
	_, err := c.db.Exec(
		`INSERT INTO resolved_modules (abs_path, content_hash, module_id, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(abs_path) DO UPDATE SET content_hash = excluded.content_hash, module_id = excluded.module_id, updated_at = excluded.updated_at`,
		e.AbsPath, e.ContentHash, e.ModuleID, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("storing cache entry for %s: %w", e.AbsPath, err)
	}
	return nil
}

// Stale reports whether absPath's cached content hash differs from
// currentHash (or there is no cached entry at all), meaning the file
// changed since the last recorded run.
func (c *Cache) Stale(absPath, currentHash string) (bool, error) {
	entry, ok, err := c.Lookup(absPath)
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	return entry.ContentHash != currentHash, nil
}
