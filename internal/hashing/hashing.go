// Package hashing provides the content hashing used for the incremental
// build cache, via
// zeebo/xxh3 — the same non-cryptographic, allocation-light hash family
// the rest of the pack reaches for when a fast, stable digest (not a
// security property) is what's needed.
package hashing

import (
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Content returns a deterministic hex digest of src, stable across
// platforms and Go versions (spec.md §7: bundler output must be
// byte-identical across runs on unchanged input).
func Content(src []byte) string {
	sum := xxh3.Hash(src)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(buf[:])
}

// Short returns the first n hex characters of a content hash. Synthetic
// wrapper names do not use it; they are built from the module ID alone.
func Short(src []byte, n int) string {
	h := Content(src)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
