// Package endian provides the byte-order abstraction used to serialize the
// archive header and entry records.
//
// It combines encoding/binary's ByteOrder and AppendByteOrder interfaces into
// a single EndianEngine, satisfied directly by binary.LittleEndian and
// binary.BigEndian. The on-disk archive format (see package section) is
// always little-endian; section's Parse/Bytes helpers read and write
// through the package-level Engine variable rather than calling
// binary.LittleEndian directly.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte-order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Engine is the byte order mandated by the archive format: all integers are
// little-endian.
var Engine EndianEngine = binary.LittleEndian
