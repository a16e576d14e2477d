// Package section defines the fixed-width, byte-packed records that make up
// an archive's on-disk layout: the file header and the per-entry record
// that precedes every stored payload.
//
// Both types expose a Parse/Bytes pair: Parse decodes a fixed-size byte
// slice into the struct, Bytes re-encodes it. Neither type owns any I/O;
// callers in package archive own reading and writing the underlying
// file.
package section

import (
	"fmt"

	"github.com/vfarchive/vfa/endian"
	"github.com/vfarchive/vfa/vfaerr"
)

// Magic is the archive format's constant header signature.
const Magic uint32 = 0x00003169

// DefaultBytesPerBlock is used when the host page size cannot be
// determined.
const DefaultBytesPerBlock uint32 = 4096

// HeaderSize is the encoded byte length of Header.
const HeaderSize = 4 + 4 + 4

// Header is the fixed record persisted at offset 0 of every archive.
type Header struct {
	// Magic must equal the constant Magic on any archive opened with Load.
	Magic uint32
	// BytesPerBlock is the allocation unit: the OS page size at create
	// time, or DefaultBytesPerBlock if that could not be determined.
	BytesPerBlock uint32
	// FirstEntry is the byte offset of the first entry record, equal to
	// HeaderSize rounded up to a multiple of BytesPerBlock.
	FirstEntry uint32
}

// Parse decodes a Header from exactly HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header must be %d bytes, got %d", vfaerr.ErrShortRead, HeaderSize, len(data))
	}

	h.Magic = endian.Engine.Uint32(data[0:4])
	h.BytesPerBlock = endian.Engine.Uint32(data[4:8])
	h.FirstEntry = endian.Engine.Uint32(data[8:12])

	if h.Magic != Magic {
		return fmt.Errorf("%w: got 0x%08x, want 0x%08x", vfaerr.ErrBadMagic, h.Magic, Magic)
	}

	return nil
}

// Bytes encodes the header into a HeaderSize-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	endian.Engine.PutUint32(b[0:4], h.Magic)
	endian.Engine.PutUint32(b[4:8], h.BytesPerBlock)
	endian.Engine.PutUint32(b[8:12], h.FirstEntry)

	return b
}

// AlignUp rounds n up to the next multiple of align. align must be a power
// of two greater than zero.
func AlignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
