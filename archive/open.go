package archive

import (
	"fmt"

	"github.com/vfarchive/vfa/internal/fphash"
	"github.com/vfarchive/vfa/vfaerr"
	"github.com/vfarchive/vfa/vfafile"
)

// Open looks up idx and returns a MEMORY-mode file handle holding the
// decoded plaintext payload. name overrides the handle's reported name;
// pass "" to use the entry's stored filename. Open fails on a missing
// entry, a short read, a decompression-size mismatch, or an integrity
// hash mismatch.
func (a *Archive) Open(idx uint32, name string) (*vfafile.File, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return nil, err
	}

	entry, ok := a.files[idx]
	if !ok {
		return nil, fmt.Errorf("%w: index %d", vfaerr.ErrNotFound, idx)
	}

	payload := make([]byte, entry.FinalSize)
	if err := readAt(a.file, int64(entry.Offset), payload); err != nil {
		return nil, err
	}

	plain, err := a.decode(entry, payload)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = entry.Filename
	}

	return vfafile.AssignNamed(name, plain), nil
}

// OpenPath is Open keyed by logical path instead of index.
func (a *Archive) OpenPath(path string) (*vfafile.File, error) {
	return a.Open(fphash.Index(path), path)
}

// Exists reports whether idx names a live entry.
func (a *Archive) Exists(idx uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.files[idx]
	return ok
}

// ExistsPath is Exists keyed by logical path instead of index.
func (a *Archive) ExistsPath(path string) bool {
	return a.Exists(fphash.Index(path))
}
