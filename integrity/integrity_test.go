package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/section"
	"github.com/vfarchive/vfa/vfafile"
)

func TestCheck_WritesDecodedEntriesToDisk(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "a.vfa")

	f, err := vfafile.Create(archivePath)
	require.NoError(t, err)

	arc := archive.New()
	require.NoError(t, arc.Create(f, nil))
	require.NoError(t, arc.Write("nested/file.txt", []byte("integrity payload"), section.FlagCompressedLZ4, 1))

	targetDir := filepath.Join(dir, "out")
	require.NoError(t, Check(arc, targetDir))

	got, err := os.ReadFile(filepath.Join(targetDir, "nested", "file.txt"))
	require.NoError(t, err)
	require.Equal(t, "integrity payload", string(got))
}

func TestCheck_PropagatesIntegrityFailure(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "a.vfa")

	f, err := vfafile.Create(archivePath)
	require.NoError(t, err)

	arc := archive.New()
	require.NoError(t, arc.Create(f, nil))
	require.NoError(t, arc.Write("f.bin", []byte("original bytes"), 0, 1))

	entry := arc.EnumerateFiles()[0]
	raw, err := arc.ReadRawData(entry.Index)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, arc.WriteRawData(raw))

	err = Check(arc, filepath.Join(dir, "out"))
	require.Error(t, err)
}
