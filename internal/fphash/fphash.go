// Package fphash computes the two 32-bit fingerprints the archive format
// depends on: the name index used as the primary key for every record, and
// the payload integrity hash stored alongside it and re-verified on every
// read.
//
// Both use xxHash32 with seed 0. cespare/xxhash/v2 — the hashing dependency
// the rest of this codebase's lineage reaches for — only implements the
// 64-bit variant, which is a different algorithm, not a truncation of
// XXH32; it cannot produce the exact bytes the format requires.
// pierrec/xxHash's xxHash32 subpackage is used instead (same author and
// ecosystem as the lz4 codec already wired in package compress).
package fphash

import (
	"strings"
	"unicode/utf16"

	"github.com/pierrec/xxHash/xxHash32"
)

const seed = 0

// Hash32 returns the xxHash32 (seed 0) checksum of data. This is the
// integrity hash stored in a file entry's Hash field and recomputed on
// every Open to detect tampering or corruption.
func Hash32(data []byte) uint32 {
	return xxHash32.Checksum(data, seed)
}

// Index computes the deterministic 32-bit fingerprint of a logical archive
// path: xxHash32 (seed 0) over the UTF-16 code units of the path, after
// normalizing path separators ('\' -> '/') and lowercasing.
//
// index(path) == index(lowercase(replace(path, '\\', '/'))) for any path,
// by construction.
func Index(path string) uint32 {
	normalized := strings.ToLower(strings.ReplaceAll(path, `\`, "/"))

	units := utf16.Encode([]rune(normalized))
	b := make([]byte, 0, len(units)*2)
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}

	return xxHash32.Checksum(b, seed)
}
