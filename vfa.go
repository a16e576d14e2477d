// Package vfa provides a single-file, random-access archive format:
// many logical files, each independently LZ4-compressed and/or
// AES-256-CBC-encrypted, addressed by a deterministic path index and
// protected by per-entry content hashes.
//
// # Core Features
//
//   - Deterministic 32-bit path index (xxHash32 over normalised, lowercased UTF-16)
//   - Per-entry LZ4 HC compression with automatic fallback when it doesn't help
//   - Per-entry AES-256-CBC encryption under a 32-byte archive key
//   - Best-fit free-list block allocator with monotonic file growth
//   - Process-scoped registry for overlaying multiple loaded archives
//   - A parallel bulk builder driven by a declarative JSON job list
//
// # Basic Usage
//
// Creating an archive and writing an entry:
//
//	f, _ := vfafile.Create("assets.vfa")
//	arc := archive.New()
//	_ = arc.Create(f, key) // key is nil if no entry needs encryption
//	_ = arc.Write("textures/wall.png", data, section.FlagCompressedLZ4, 1)
//
// Reading it back:
//
//	handle, _ := arc.OpenPath("textures/wall.png")
//	plaintext := handle.GetData()
//
// # Package Structure
//
// This file provides convenience wrappers around the lower-level packages
// (vfafile, archive, pack). For direct control over allocation,
// codec flags, or the pack registry's overlay semantics, use those
// packages directly.
package vfa

import (
	"os"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/internal/xlog"
	"github.com/vfarchive/vfa/pack"
	"github.com/vfarchive/vfa/vfafile"
)

// Registry is the process-wide pack registry singleton, returned by
// Initialize.
type Registry = pack.Registry

// Archive is a single open VFA file handle.
type Archive = archive.Archive

// Initialize brings up the process-wide log sink and pack registry. It
// must precede every other vfa, pack, or archive operation.
func Initialize() *Registry {
	xlog.Initialize(os.Stderr)
	return pack.Initialize()
}

// Finalize unloads every archive the pack registry still holds and
// releases the log sink. It must follow every archive Unload.
func Finalize() error {
	err := pack.Finalize()
	xlog.Finalize()
	return err
}

// CreateArchive creates a fresh archive at path with the given 32-byte
// AES key (nil if no entry will request encryption).
func CreateArchive(path string, key []byte) (*Archive, error) {
	f, err := vfafile.Create(path)
	if err != nil {
		return nil, err
	}

	arc := archive.New()
	if err := arc.Create(f, key); err != nil {
		return nil, err
	}

	return arc, nil
}

// LoadArchive opens an existing archive at path for reading and writing.
// The backing file is opened without truncation, so every archive
// operation, including Write and Delete, is permitted on the returned
// handle.
func LoadArchive(path string, key []byte) (*Archive, error) {
	f, err := vfafile.CreateAppend(path)
	if err != nil {
		return nil, err
	}

	arc := archive.New()
	if err := arc.Load(f, key); err != nil {
		return nil, err
	}

	return arc, nil
}
