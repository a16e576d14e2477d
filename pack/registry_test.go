package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/vfafile"
)

func newTestRegistry() *Registry {
	return &Registry{
		archiveKeys:        make(map[string][]byte),
		registeredArchives: make(map[string]string),
	}
}

func buildArchive(t *testing.T, path, logical string, payload []byte) {
	t.Helper()

	f, err := vfafile.Create(path)
	require.NoError(t, err)

	arc := archive.New()
	require.NoError(t, arc.Create(f, nil))
	require.NoError(t, arc.Write(logical, payload, 0, 1))
	require.NoError(t, arc.Unload())
}

func TestWildcardMatch(t *testing.T) {
	cases := []struct {
		text, pattern string
		want          bool
	}{
		{"a.txt", "*.txt", true},
		{"a.png", "*.txt", false},
		{"abc", "a?c", true},
		{"ac", "a?c", false},
		{"", "*", true},
		{"anything/at/all.bin", "*", true},
		{"textures/wall.png", "textures/*", true},
		{"models/wall.png", "textures/*", false},
	}

	for _, c := range cases {
		require.Equal(t, c.want, WildcardMatch(c.text, c.pattern), "text=%q pattern=%q", c.text, c.pattern)
	}
}

func TestConvertKeyFromAscii(t *testing.T) {
	b, err := ConvertKeyFromAscii("000102030405060708090A0B0C0D0E0F")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}, b)
}

func TestConvertKeyFromAscii_Invalid(t *testing.T) {
	_, err := ConvertKeyFromAscii("not hex")
	require.Error(t, err)
}

func TestRegistry_SetArchiveKey_RejectsWrongSize(t *testing.T) {
	r := &Registry{archiveKeys: make(map[string][]byte)}

	err := r.SetArchiveKey("foo.vfa", make([]byte, 16))
	require.Error(t, err)
}

func TestRegistry_GetAbsolutePath(t *testing.T) {
	r := &Registry{}
	r.SetWorkingDirectory("/work")

	require.Equal(t, "/abs/path", r.GetAbsolutePath("/abs/path"))
	require.Equal(t, "/work/rel/path", r.GetAbsolutePath("rel/path"))
}

func TestRegistry_LoadRegisteredArchives_LastRegisteredShadows(t *testing.T) {
	dir := t.TempDir()
	buildArchive(t, filepath.Join(dir, "base.vfa"), "cfg/settings.txt", []byte("base"))
	buildArchive(t, filepath.Join(dir, "patch.vfa"), "cfg/settings.txt", []byte("patch"))

	r := newTestRegistry()
	r.SetWorkingDirectory(dir)
	r.Register("base.vfa", "*")
	r.Register("patch.vfa", "*")

	require.NoError(t, r.LoadRegisteredArchives())

	f, err := r.Open("cfg/settings.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("patch"), f.GetData())
}

func TestRegistry_LoadArchive_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.vfa")
	buildArchive(t, path, "f", []byte("x"))

	r := newTestRegistry()

	a1, err := r.LoadArchive(path)
	require.NoError(t, err)

	a2, err := r.LoadArchive(path)
	require.NoError(t, err)
	require.Same(t, a1, a2)
}

func TestRegistry_Open_FallsBackToFilesystem(t *testing.T) {
	dir := t.TempDir()
	loose := filepath.Join(dir, "loose.txt")
	require.NoError(t, os.WriteFile(loose, []byte("loose"), 0o644))

	r := newTestRegistry()

	f, err := r.Open(loose)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "loose", string(buf))
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := &Registry{
		archiveKeys:        make(map[string][]byte),
		registeredArchives: make(map[string]string),
	}

	r.Register("main", "*")
	require.Contains(t, r.archiveNames, "main")

	r.Unregister("main")
	require.NotContains(t, r.archiveNames, "main")
}
