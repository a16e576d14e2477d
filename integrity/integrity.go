// Package integrity provides a test-suite helper that enumerates an
// archive, opens every entry, and writes its decoded bytes back to disk
// under a target directory — surfacing any hash or size mismatch that C4
// detects along the way.
package integrity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/vfaerr"
)

// Check opens every live entry in arc and writes its decoded bytes to
// targetDir, using the entry's stored filename (falling back to its
// numeric index if the filename is empty). It returns the first error
// encountered.
func Check(arc *archive.Archive, targetDir string) error {
	for _, entry := range arc.EnumerateFiles() {
		f, err := arc.Open(entry.Index, "")
		if err != nil {
			return fmt.Errorf("%w: index %d: %w", vfaerr.ErrIntegrity, entry.Index, err)
		}

		name := entry.Filename
		if name == "" {
			name = fmt.Sprintf("%08x", entry.Index)
		}

		dest := filepath.Join(targetDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: mkdir for %s: %w", vfaerr.ErrIO, dest, err)
		}

		out, err := os.Create(dest)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: create %s: %w", vfaerr.ErrIO, dest, err)
		}

		if _, err := io.Copy(out, f); err != nil {
			_ = f.Close()
			_ = out.Close()
			return fmt.Errorf("%w: write %s: %w", vfaerr.ErrIO, dest, err)
		}

		_ = f.Close()
		if err := out.Close(); err != nil {
			return fmt.Errorf("%w: close %s: %w", vfaerr.ErrIO, dest, err)
		}
	}

	return nil
}
