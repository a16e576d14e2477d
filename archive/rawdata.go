package archive

import (
	"fmt"

	"github.com/vfarchive/vfa/section"
	"github.com/vfarchive/vfa/vfaerr"
	"github.com/vfarchive/vfa/vfafile"
)

// ReadRawData returns the entry's on-disk record immediately followed by
// its (still encoded) payload bytes, exactly as stored on disk. It is
// paired with WriteRawData to move an entry between archives without
// re-running the codec pipeline.
func (a *Archive) ReadRawData(idx uint32) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return nil, err
	}

	entry, ok := a.files[idx]
	if !ok {
		return nil, fmt.Errorf("%w: index %d", vfaerr.ErrNotFound, idx)
	}

	raw := make([]byte, section.Size+int(entry.FinalSize))
	if err := readAt(a.file, int64(entry.RecordOffset()), raw[:section.Size]); err != nil {
		return nil, err
	}
	if err := a.readPayload(entry, raw[section.Size:]); err != nil {
		return nil, err
	}

	return raw, nil
}

// readPayload copies an entry's encoded payload bytes into buf. When the
// archive is backed by a named disk file the payload is read through a
// memory-mapped view; otherwise it falls back to a positioned read on the
// backing handle.
func (a *Archive) readPayload(entry *section.Entry, buf []byte) error {
	if name := a.file.Name(); name != "" && len(buf) > 0 {
		m, err := vfafile.Map(name, int64(entry.Offset), len(buf))
		if err == nil {
			defer m.Close()
			if n, err := m.Read(buf); err == nil && n == len(buf) {
				return nil
			}
		}
	}

	return readAt(a.file, int64(entry.Offset), buf)
}

// WriteRawData re-inserts a block previously captured by ReadRawData,
// placing it via the same allocator rule as Write but without touching
// the codec pipeline: flags, hash, and all size fields are copied
// verbatim from raw.
func (a *Archive) WriteRawData(raw []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireWriteable(); err != nil {
		return err
	}

	if len(raw) < section.Size {
		return fmt.Errorf("%w: raw block shorter than a record", vfaerr.ErrShortRead)
	}

	var entry section.Entry
	if err := entry.Parse(raw[:section.Size]); err != nil {
		return err
	}
	payload := raw[section.Size:]

	slot, err := a.allocate(entry.CryptedSize)
	if err != nil {
		return err
	}

	if _, ok := a.files[entry.Index]; ok {
		a.deleteLocked(entry.Index)
	}

	entry.Offset = slot.Offset
	entry.NumBlocks = slot.NumBlocks

	if err := writeAt(a.file, int64(entry.RecordOffset()), entry.Bytes()); err != nil {
		return err
	}
	if err := writeAt(a.file, int64(entry.Offset), payload); err != nil {
		return err
	}

	stored := entry
	a.files[entry.Index] = &stored

	return nil
}
