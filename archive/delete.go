package archive

import "github.com/vfarchive/vfa/internal/fphash"

// Delete removes the live entry with the given index, if any. The slot is
// retained on disk and moved to the free list for future reuse; the old
// payload bytes are not erased. Returns false if idx is not live or the
// archive is not open for writing.
func (a *Archive) Delete(idx uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.requireWriteable() != nil {
		return false
	}

	return a.deleteLocked(idx)
}

// DeletePath is Delete keyed by logical path instead of index.
func (a *Archive) DeletePath(path string) bool {
	return a.Delete(fphash.Index(path))
}

// deleteLocked performs the delete under a.mu, which the caller must
// already hold. It is also used internally by Write to retire a
// replaced entry's old slot.
func (a *Archive) deleteLocked(idx uint32) bool {
	entry, ok := a.files[idx]
	if !ok {
		return false
	}

	delete(a.files, idx)
	entry.ClearSemanticFields()
	a.entries = append(a.entries, entry)

	if err := writeAt(a.file, int64(entry.RecordOffset()), entry.Bytes()); err != nil {
		return false
	}

	return true
}
