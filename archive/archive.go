// Package archive implements the VFA archive engine: header and entry
// table management, the best-fit block allocator, and the Create / Load /
// Write / Delete / Open / Enumerate / raw-copy operation set.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vfarchive/vfa/compress"
	"github.com/vfarchive/vfa/crypt"
	"github.com/vfarchive/vfa/section"
	"github.com/vfarchive/vfa/vfafile"
	"github.com/vfarchive/vfa/vfaerr"
)

// state is the archive handle's lifecycle position.
type state int

const (
	stateEmpty state = iota
	stateOpen
	stateClosed
)

// Archive is a single open VFA file: its header, its live and free entry
// sets, and the backing file handle. All exported methods are safe for
// concurrent use; they serialize through a single recursive-in-spirit
// mutex, matching the archive engine's "operations are not designed to
// interleave" contract.
type Archive struct {
	mu sync.Mutex

	state state

	file   *vfafile.File
	header section.Header
	key    []byte // 32-byte AES-256 key; nil disables encryption support

	files   map[uint32]*section.Entry // live set, keyed by index
	entries []*section.Entry          // free list, insertion order preserved
}

// New returns an unopened archive handle. Call Create or Load before using
// it.
func New() *Archive {
	return &Archive{
		state: stateEmpty,
		files: make(map[uint32]*section.Entry),
	}
}

// Create opens file as a fresh archive, or loads it in place if it already
// holds a valid archive (Create attempts Load first). key is the archive's
// 32-byte AES-256 key; pass nil if no entry will ever request encryption.
func (a *Archive) Create(file *vfafile.File, key []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.loadLocked(file, key); err == nil {
		return nil
	}

	bytesPerBlock := uint32(os.Getpagesize())
	if bytesPerBlock == 0 {
		bytesPerBlock = section.DefaultBytesPerBlock
	}

	a.header = section.Header{
		Magic:         section.Magic,
		BytesPerBlock: bytesPerBlock,
		FirstEntry:    section.AlignUp(section.HeaderSize, bytesPerBlock),
	}
	a.file = file
	a.key = copyKey(key)
	a.files = make(map[uint32]*section.Entry)
	a.entries = nil

	if err := writeAt(a.file, 0, a.header.Bytes()); err != nil {
		return err
	}

	pad := make([]byte, a.header.FirstEntry-section.HeaderSize)
	if err := writeAt(a.file, int64(section.HeaderSize), pad); err != nil {
		return err
	}

	a.state = stateOpen

	return nil
}

// Load opens file as an existing archive: it reads the header, verifies
// the magic, and walks every record to populate the live and free sets.
func (a *Archive) Load(file *vfafile.File, key []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.loadLocked(file, key)
}

func (a *Archive) loadLocked(file *vfafile.File, key []byte) error {
	headerBuf := make([]byte, section.HeaderSize)
	if err := readAt(file, 0, headerBuf); err != nil {
		return err
	}

	var header section.Header
	if err := header.Parse(headerBuf); err != nil {
		return err
	}

	size, err := file.GetSize()
	if err != nil {
		return err
	}

	files := make(map[uint32]*section.Entry)
	var free []*section.Entry

	cursor := int64(header.FirstEntry)
	recordBuf := make([]byte, section.Size)
	for cursor+int64(section.Size) <= size {
		if err := readAt(file, cursor, recordBuf); err != nil {
			return err
		}

		entry := &section.Entry{}
		if err := entry.Parse(recordBuf); err != nil {
			return err
		}

		if entry.Live() {
			files[entry.Index] = entry
		} else {
			free = append(free, entry)
		}

		// Each record sits at the start of its block range; the next one
		// begins numBlocks blocks later.
		stride := int64(entry.NumBlocks) * int64(header.BytesPerBlock)
		if stride <= 0 {
			break
		}
		cursor += stride
	}

	a.header = header
	a.file = file
	a.key = copyKey(key)
	a.files = files
	a.entries = free
	a.state = stateOpen

	return nil
}

// Unload releases the archive's key material and in-memory state. The
// backing file handle is released but not removed from disk.
func (a *Archive) Unload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != stateOpen {
		return nil
	}

	for i := range a.key {
		a.key[i] = 0
	}
	a.key = nil
	a.files = nil
	a.entries = nil
	a.state = stateClosed

	if a.file != nil {
		err := a.file.Close()
		a.file = nil
		return err
	}

	return nil
}

func (a *Archive) requireOpen() error {
	if a.state != stateOpen {
		return fmt.Errorf("%w: archive is not open", vfaerr.ErrIO)
	}
	return nil
}

func (a *Archive) requireWriteable() error {
	if err := a.requireOpen(); err != nil {
		return err
	}
	if !a.file.IsWriteable() {
		return vfaerr.ErrNotWriteable
	}
	return nil
}

// copyKey returns an owned copy of key so Unload can zero the archive's
// key material without touching the caller's slice.
func copyKey(key []byte) []byte {
	if key == nil {
		return nil
	}

	owned := make([]byte, len(key))
	copy(owned, key)
	return owned
}

func readAt(f *vfafile.File, offset int64, buf []byte) error {
	if err := f.SetPosition(offset, false); err != nil {
		return err
	}

	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: read %d of %d bytes", vfaerr.ErrShortRead, n, len(buf))
	}

	return nil
}

func writeAt(f *vfafile.File, offset int64, buf []byte) error {
	if err := f.SetPosition(offset, false); err != nil {
		return err
	}

	n, err := f.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("%w: wrote %d of %d bytes", vfaerr.ErrShortWrite, n, len(buf))
	}

	return nil
}

// codecFor returns the compression codec appropriate for flags.
func codecFor(flags uint8) compress.Codec {
	if flags&section.FlagCompressedLZ4 != 0 {
		return compress.NewLZ4Compressor()
	}
	return compress.NewNoOpCompressor()
}

func (a *Archive) cipher() (crypt.Cipher, error) {
	return crypt.New(a.key)
}
