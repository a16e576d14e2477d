// Package vfaerr defines the sentinel errors shared across the archive, pack,
// builder, and config layers. Callers should use errors.Is against these
// values rather than matching on error strings.
package vfaerr

import "errors"

var (
	// ErrConfig indicates a malformed job list, a missing source directory,
	// or an output archive path that already exists.
	ErrConfig = errors.New("vfa: config error")

	// ErrIO indicates an underlying file or mapping operation failed.
	ErrIO = errors.New("vfa: io error")

	// ErrShortRead indicates fewer bytes were read than requested.
	ErrShortRead = errors.New("vfa: short read")

	// ErrShortWrite indicates fewer bytes were written than requested.
	ErrShortWrite = errors.New("vfa: short write")

	// ErrBadMagic indicates the archive header magic did not match.
	ErrBadMagic = errors.New("vfa: bad magic")

	// ErrIntegrity indicates the decoded plaintext hash did not match the
	// entry's stored hash.
	ErrIntegrity = errors.New("vfa: integrity check failed")

	// ErrDecompress indicates LZ4 decompression produced a size different
	// from the entry's stored raw (plaintext) size.
	ErrDecompress = errors.New("vfa: decompress size mismatch")

	// ErrAllocation indicates the archive could not reserve space for a
	// payload.
	ErrAllocation = errors.New("vfa: allocation failed")

	// ErrNotFound indicates a lookup by index or path found nothing.
	ErrNotFound = errors.New("vfa: not found")

	// ErrNotWriteable indicates an operation was attempted on a handle or
	// archive that is not open for writing.
	ErrNotWriteable = errors.New("vfa: not writeable")

	// ErrNotReadable indicates an operation was attempted on a handle or
	// archive that is not open for reading.
	ErrNotReadable = errors.New("vfa: not readable")
)
