package section

import (
	"fmt"
	"unicode/utf16"

	"github.com/vfarchive/vfa/endian"
	"github.com/vfarchive/vfa/vfaerr"
)

// Entry flag bits, packed into the record's one-byte Flags field.
const (
	FlagCompressedLZ4 uint8 = 0x1
	FlagCryptedAES256 uint8 = 0x2
)

// FilenameChars is the fixed width, in UTF-16 code units, of an entry's
// diagnostic filename field.
const FilenameChars = 255

// FilenameBytes is FilenameChars expressed in bytes (2 bytes per unit).
const FilenameBytes = FilenameChars * 2

// Size is the encoded byte length of an Entry record.
const Size = 4 + 4 + 4 + 1 + 4 + 4 + 4 + FilenameBytes + 4 + 4 + 8

// Entry is the fixed-width record persisted immediately before the payload
// it governs. A zero Index marks a free entry; a non-zero Index marks a
// live one.
type Entry struct {
	Index          uint32
	Hash           uint32
	Version        uint32
	Flags          uint8
	RawSize        uint32
	CompressedSize uint32
	CryptedSize    uint32
	Filename       string
	FinalSize      uint32
	NumBlocks      uint32
	Offset         uint64
}

// Live reports whether the entry currently carries a payload.
func (e *Entry) Live() bool { return e.Index != 0 }

// HasFlag reports whether bit is set in Flags.
func (e *Entry) HasFlag(bit uint8) bool { return e.Flags&bit != 0 }

// RecordOffset returns the absolute file offset of this entry's record,
// which is always immediately before its payload.
func (e *Entry) RecordOffset() uint64 { return e.Offset - uint64(Size) }

// Parse decodes an Entry from exactly Size bytes.
func (e *Entry) Parse(data []byte) error {
	if len(data) != Size {
		return fmt.Errorf("%w: entry record must be %d bytes, got %d", vfaerr.ErrShortRead, Size, len(data))
	}

	off := 0
	e.Index = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.Hash = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.Version = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.Flags = data[off]
	off++
	e.RawSize = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.CompressedSize = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.CryptedSize = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.Filename = decodeFilename(data[off : off+FilenameBytes])
	off += FilenameBytes
	e.FinalSize = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.NumBlocks = endian.Engine.Uint32(data[off : off+4])
	off += 4
	e.Offset = endian.Engine.Uint64(data[off : off+8])

	return nil
}

// Bytes encodes the entry into a Size-byte slice.
func (e *Entry) Bytes() []byte {
	b := make([]byte, Size)

	off := 0
	endian.Engine.PutUint32(b[off:off+4], e.Index)
	off += 4
	endian.Engine.PutUint32(b[off:off+4], e.Hash)
	off += 4
	endian.Engine.PutUint32(b[off:off+4], e.Version)
	off += 4
	b[off] = e.Flags
	off++
	endian.Engine.PutUint32(b[off:off+4], e.RawSize)
	off += 4
	endian.Engine.PutUint32(b[off:off+4], e.CompressedSize)
	off += 4
	endian.Engine.PutUint32(b[off:off+4], e.CryptedSize)
	off += 4
	encodeFilename(b[off:off+FilenameBytes], e.Filename)
	off += FilenameBytes
	endian.Engine.PutUint32(b[off:off+4], e.FinalSize)
	off += 4
	endian.Engine.PutUint32(b[off:off+4], e.NumBlocks)
	off += 4
	endian.Engine.PutUint64(b[off:off+8], e.Offset)

	return b
}

// ClearSemanticFields zeroes everything but Offset and NumBlocks, the two
// fields a deleted record must preserve so its reserved space can be
// reused by the allocator.
func (e *Entry) ClearSemanticFields() {
	offset, numBlocks := e.Offset, e.NumBlocks
	*e = Entry{Offset: offset, NumBlocks: numBlocks}
}

func encodeFilename(dst []byte, name string) {
	for i := range dst {
		dst[i] = 0
	}

	units := utf16.Encode([]rune(name))
	if len(units) > FilenameChars {
		units = units[:FilenameChars]
	}
	for i, u := range units {
		endian.Engine.PutUint16(dst[i*2:i*2+2], u)
	}
}

func decodeFilename(src []byte) string {
	units := make([]uint16, 0, FilenameChars)
	for i := 0; i+1 < len(src); i += 2 {
		u := endian.Engine.Uint16(src[i : i+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}

	return string(utf16.Decode(units))
}
