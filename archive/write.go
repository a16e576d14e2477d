package archive

import (
	"github.com/vfarchive/vfa/internal/fphash"
	"github.com/vfarchive/vfa/section"
)

// Write stores data under the logical path, running the codec pipeline
// requested by flags. version is caller-assigned and stored verbatim. If
// an entry already exists under path with an identical plaintext hash,
// Write is a no-op.
func (a *Archive) Write(path string, data []byte, flags uint8, version uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireWriteable(); err != nil {
		return err
	}

	idx := fphash.Index(path)
	h := fphash.Hash32(data)

	if existing, ok := a.files[idx]; ok && existing.Hash == h {
		return nil
	}

	enc, err := a.encode(data, flags)
	if err != nil {
		return err
	}

	slot, err := a.allocate(enc.cryptedSize)
	if err != nil {
		return err
	}

	if _, ok := a.files[idx]; ok {
		a.deleteLocked(idx)
	}

	entry := &section.Entry{
		Index:          idx,
		Hash:           h,
		Version:        version,
		Flags:          enc.flags,
		RawSize:        enc.rawSize,
		CompressedSize: enc.compressedSize,
		CryptedSize:    enc.cryptedSize,
		Filename:       path,
		FinalSize:      enc.cryptedSize,
		NumBlocks:      slot.NumBlocks,
		Offset:         slot.Offset,
	}

	if err := writeAt(a.file, int64(entry.RecordOffset()), entry.Bytes()); err != nil {
		return err
	}
	if err := writeAt(a.file, int64(entry.Offset), enc.payload); err != nil {
		return err
	}

	a.files[idx] = entry

	return nil
}
