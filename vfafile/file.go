// Package vfafile provides a uniform byte-stream handle over four backing
// modes: a writeable disk file, a read-only disk file, a read-only memory
// map, and a plain in-memory buffer. The archive engine (package archive)
// does all of its I/O through this handle and never touches *os.File or
// syscalls directly.
package vfafile

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/vfarchive/vfa/vfaerr"
)

// Mode identifies a File's backing store and the operations it permits.
type Mode int

const (
	// Output is a read+write disk file, created or truncated on Create.
	Output Mode = iota
	// Input is a read-only disk file opened on Open.
	Input
	// Mapped is a read-only memory map of a disk file, opened on Map.
	Mapped
	// Memory is an in-RAM buffer, borrowed via Assign/AssignNamed or owned
	// via NewMemory.
	Memory
)

// File is a single backing store accessed through one of four modes. The
// zero value is not usable; construct one with Create, Open, Map, or
// Assign.
type File struct {
	mode Mode
	name string

	osFile *os.File

	mapped   []byte // mmap view, starts at the alignment-rounded offset
	mapExtra int    // bytes between the rounded offset and the requested one

	buf   []byte // Memory-mode backing buffer
	owned bool   // true if this handle must release buf/mapped itself

	pos int64
}

// Create opens path for reading and writing, creating it if necessary and
// truncating it if it already exists (OUTPUT mode).
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", vfaerr.ErrIO, path, err)
	}

	return &File{mode: Output, name: path, osFile: f, owned: true}, nil
}

// CreateAppend opens path for reading and writing without truncating it,
// creating it if necessary (OUTPUT mode). Existing contents are preserved.
func CreateAppend(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", vfaerr.ErrIO, path, err)
	}

	return &File{mode: Output, name: path, osFile: f, owned: true}, nil
}

// Open opens path read-only (INPUT mode).
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", vfaerr.ErrIO, path, err)
	}

	return &File{mode: Input, name: path, osFile: f, owned: true}, nil
}

// Map memory-maps path read-only, exposing a view starting at offset
// rounded down to the OS allocation granularity (MAPPED mode). length is
// the number of bytes visible from the requested offset.
func Map(path string, offset int64, length int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", vfaerr.ErrIO, path, err)
	}

	granularity := int64(os.Getpagesize())
	aligned := (offset / granularity) * granularity
	extra := int(offset - aligned)

	data, err := unix.Mmap(int(f.Fd()), aligned, length+extra, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %w", vfaerr.ErrIO, path, err)
	}

	return &File{mode: Mapped, name: path, osFile: f, mapped: data, mapExtra: extra, owned: true}, nil
}

// Assign wraps an existing in-memory buffer (MEMORY mode). The caller
// retains ownership: Close never releases buf.
func Assign(buf []byte) *File {
	return &File{mode: Memory, buf: buf, owned: false}
}

// AssignNamed is Assign with a diagnostic name attached to the handle.
func AssignNamed(name string, buf []byte) *File {
	return &File{mode: Memory, name: name, buf: buf, owned: false}
}

// NewMemory allocates an owned, empty in-memory buffer (MEMORY mode).
func NewMemory() *File {
	return &File{mode: Memory, buf: nil, owned: true}
}

// Mode reports the handle's backing mode.
func (f *File) Mode() Mode { return f.mode }

// Name reports the handle's name: the disk path for Output, Input and
// Mapped modes, or whatever AssignNamed attached for Memory mode. May be
// empty.
func (f *File) Name() string { return f.name }

// IsWriteable reports whether the handle is a writeable disk file. True
// only in OUTPUT mode.
func (f *File) IsWriteable() bool {
	return f.mode == Output
}

// IsReadable reports whether Read is permitted. Every mode is readable.
func (f *File) IsReadable() bool { return true }

// GetSize returns the current size of the backing store.
func (f *File) GetSize() (int64, error) {
	switch f.mode {
	case Output, Input:
		info, err := f.osFile.Stat()
		if err != nil {
			return 0, fmt.Errorf("%w: stat: %w", vfaerr.ErrIO, err)
		}
		return info.Size(), nil
	case Mapped:
		return int64(len(f.mapped) - f.mapExtra), nil
	case Memory:
		return int64(len(f.buf)), nil
	default:
		return 0, fmt.Errorf("%w: unknown mode", vfaerr.ErrIO)
	}
}

// GetPosition returns the current cursor position.
func (f *File) GetPosition() int64 { return f.pos }

// SetPosition moves the cursor. If relative is true, offset is added to
// the current position; otherwise it is absolute.
func (f *File) SetPosition(offset int64, relative bool) error {
	if relative {
		f.pos += offset
	} else {
		f.pos = offset
	}

	if f.mode == Output || f.mode == Input {
		if _, err := f.osFile.Seek(f.pos, io.SeekStart); err != nil {
			return fmt.Errorf("%w: seek: %w", vfaerr.ErrIO, err)
		}
	}

	return nil
}

// Read reads up to len(p) bytes starting at the current cursor and
// advances it. At end of the backing store it returns io.EOF, per the
// io.Reader contract.
func (f *File) Read(p []byte) (int, error) {
	switch f.mode {
	case Output, Input:
		n, err := f.osFile.ReadAt(p, f.pos)
		f.pos += int64(n)
		if err == io.EOF {
			if n == 0 && len(p) > 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("%w: read: %w", vfaerr.ErrIO, err)
		}
		return n, nil
	case Mapped, Memory:
		src := f.data()
		if f.pos < 0 || f.pos > int64(len(src)) {
			return 0, fmt.Errorf("%w: read past end", vfaerr.ErrShortRead)
		}
		if f.pos == int64(len(src)) && len(p) > 0 {
			return 0, io.EOF
		}
		n := copy(p, src[f.pos:])
		f.pos += int64(n)
		return n, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode", vfaerr.ErrIO)
	}
}

// Write writes p at the current cursor and advances it. Permitted on an
// OUTPUT disk file and on an owned MEMORY buffer, which grows as needed.
func (f *File) Write(p []byte) (int, error) {
	if f.mode != Output && !(f.mode == Memory && f.owned) {
		return 0, vfaerr.ErrNotWriteable
	}

	switch f.mode {
	case Output:
		n, err := f.osFile.WriteAt(p, f.pos)
		f.pos += int64(n)
		if err != nil {
			return n, fmt.Errorf("%w: write: %w", vfaerr.ErrIO, err)
		}
		return n, nil
	case Memory:
		end := f.pos + int64(len(p))
		if end > int64(len(f.buf)) {
			grown := make([]byte, end)
			copy(grown, f.buf)
			f.buf = grown
		}
		n := copy(f.buf[f.pos:end], p)
		f.pos += int64(n)
		return n, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode", vfaerr.ErrIO)
	}
}

// GetData returns the handle's full in-memory view: the mapped region for
// MAPPED mode (offset-adjusted), or the backing buffer for MEMORY mode. It
// panics if called on OUTPUT or INPUT mode, where no such view exists.
func (f *File) GetData() []byte {
	switch f.mode {
	case Mapped, Memory:
		return f.data()
	default:
		panic("vfafile: GetData is not defined for disk-backed modes")
	}
}

func (f *File) data() []byte {
	if f.mode == Mapped {
		return f.mapped[f.mapExtra:]
	}
	return f.buf
}

// Close releases the handle's owned resources: file descriptor, memory
// map, or owned buffer. A borrowed Assign buffer is left untouched.
func (f *File) Close() error {
	var err error

	if f.mode == Mapped && f.mapped != nil {
		err = unix.Munmap(f.mapped)
		f.mapped = nil
	}

	if f.owned {
		f.buf = nil
	}

	if f.osFile != nil {
		if cerr := f.osFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		f.osFile = nil
	}

	if err != nil {
		return fmt.Errorf("%w: close: %w", vfaerr.ErrIO, err)
	}

	return nil
}
