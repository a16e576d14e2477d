package vfafile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile_CreateWriteReadOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.vfa")

	f, err := Create(path)
	require.NoError(t, err)
	require.Equal(t, Output, f.Mode())
	require.True(t, f.IsWriteable())

	payload := []byte("hello archive")
	n, err := f.Write(payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	require.NoError(t, f.SetPosition(0, false))
	buf := make([]byte, len(payload))
	n, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, buf)

	require.NoError(t, f.Close())
}

func TestFile_Open_IsReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.vfa")
	require.NoError(t, os.WriteFile(path, []byte("fixed content"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, Input, f.Mode())
	require.False(t, f.IsWriteable())

	buf := make([]byte, len("fixed content"))
	_, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "fixed content", string(buf))

	require.NoError(t, f.Close())
}

func TestFile_Assign_Memory(t *testing.T) {
	buf := []byte("borrowed buffer")
	f := Assign(buf)

	require.Equal(t, Memory, f.Mode())
	require.False(t, f.IsWriteable())
	require.Equal(t, buf, f.GetData())

	out := make([]byte, len(buf))
	n, err := f.Read(out)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, buf, out)

	require.NoError(t, f.Close())
	require.Equal(t, buf, f.GetData(), "Assign'd buffer must survive Close")
}

func TestFile_NewMemory_OwnedBufferAcceptsWrites(t *testing.T) {
	f := NewMemory()
	require.False(t, f.IsWriteable(), "IsWriteable is reserved for OUTPUT mode")

	n, err := f.Write([]byte("grow me"))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, []byte("grow me"), f.GetData())
}

func TestFile_Read_ReturnsEOFAtEnd(t *testing.T) {
	f := Assign([]byte("abc"))

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = f.Read(buf)
	require.Zero(t, n)
	require.ErrorIs(t, err, io.EOF)
}

func TestFile_Read_DiskModeReturnsEOFAtEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eof.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	var sink bytes.Buffer
	n, err := io.Copy(&sink, f)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "abc", sink.String())
}

func TestFile_SetPosition_Relative(t *testing.T) {
	f := Assign([]byte("0123456789"))

	require.NoError(t, f.SetPosition(5, false))
	require.NoError(t, f.SetPosition(2, true))
	require.Equal(t, int64(7), f.GetPosition())

	buf := make([]byte, 3)
	_, err := f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "789", string(buf))
}

func TestFile_CreateAppend_PreservesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.vfa")
	require.NoError(t, os.WriteFile(path, []byte("keep me"), 0o644))

	f, err := CreateAppend(path)
	require.NoError(t, err)
	require.Equal(t, Output, f.Mode())
	require.True(t, f.IsWriteable())

	size, err := f.GetSize()
	require.NoError(t, err)
	require.Equal(t, int64(len("keep me")), size)

	require.NoError(t, f.Close())
}

func TestFile_Name(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.vfa")

	f, err := Create(path)
	require.NoError(t, err)
	require.Equal(t, path, f.Name())
	require.NoError(t, f.Close())

	m := AssignNamed("logical/name.txt", []byte("x"))
	require.Equal(t, "logical/name.txt", m.Name())

	require.Empty(t, Assign([]byte("x")).Name())
}

func TestFile_Map_AlignsToPageBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.bin")
	data := make([]byte, os.Getpagesize()*2)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	offset := int64(os.Getpagesize() + 10)
	f, err := Map(path, offset, 20)
	require.NoError(t, err)
	require.Equal(t, Mapped, f.Mode())

	view := f.GetData()
	require.Equal(t, data[offset:offset+20], view[:20])

	require.NoError(t, f.Close())
}
