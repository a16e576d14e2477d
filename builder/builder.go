// Package builder implements the bulk archive builder: given a declarative
// job list, it walks each job's source directory, applies ignore globs and
// path rewrites, and writes one archive per job in parallel.
package builder

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/config"
	"github.com/vfarchive/vfa/internal/fphash"
	"github.com/vfarchive/vfa/internal/xlog"
	"github.com/vfarchive/vfa/pack"
	"github.com/vfarchive/vfa/vfaerr"
	"github.com/vfarchive/vfa/vfafile"
	"github.com/vfarchive/vfa/vfalite"
)

// Build runs every job in jobs concurrently. The first job to fail cancels
// the rest; Build then returns that error. There is no partial-archive
// recovery: a failed job's archive is left as-is on disk.
func Build(ctx context.Context, jobs []config.Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return runJob(job)
		})
	}

	return g.Wait()
}

func runJob(job config.Job) error {
	key, err := job.KeyBytes()
	if err != nil {
		return err
	}
	if key == nil && vfalite.Enabled {
		key = vfalite.Key
	}

	f, err := vfafile.Create(job.File)
	if err != nil {
		return err
	}

	arc := archive.New()
	if err := arc.Create(f, key); err != nil {
		_ = f.Close()
		return err
	}
	defer func() {
		if err := arc.Unload(); err != nil {
			xlog.Err("builder: unload %s: %v", job.File, err)
		}
	}()

	flags := uint8(job.Type)
	version := uint32(job.Version)
	manifest := newManifestWriter(job.File)

	err = filepath.WalkDir(job.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		return writeEntry(arc, job, path, flags, version, manifest)
	})
	if err != nil {
		return fmt.Errorf("%w: walking %s: %w", vfaerr.ErrIO, job.Dir, err)
	}

	if err := manifest.flush(); err != nil {
		return err
	}

	xlog.Sys("builder: wrote %s", job.File)

	return nil
}

func writeEntry(arc *archive.Archive, job config.Job, diskPath string, flags uint8, version uint32, manifest *manifestWriter) error {
	rel, err := filepath.Rel(job.Dir, diskPath)
	if err != nil {
		return fmt.Errorf("%w: %w", vfaerr.ErrIO, err)
	}

	logical := rel
	for _, patch := range job.Patches {
		if strings.Contains(logical, patch.From) {
			xlog.Trace("builder: rewrite %q -> %q in %s", patch.From, patch.To, logical)
			logical = strings.Replace(logical, patch.From, patch.To, 1)
		}
	}

	logical = filepath.ToSlash(logical)

	for _, ignore := range job.Ignores {
		if pack.WildcardMatch(logical, ignore) {
			return nil
		}
	}

	data, err := os.ReadFile(diskPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", vfaerr.ErrIO, diskPath, err)
	}
	if len(data) == 0 {
		xlog.Dev("builder: skipping empty file %s", diskPath)
		return nil
	}

	if job.VisualDir != "" {
		logical = filepath.ToSlash(filepath.Join(job.VisualDir, logical))
	}

	if err := arc.Write(logical, data, flags, version); err != nil {
		return err
	}

	manifest.record(logical, fphash.Index(logical), fphash.Hash32(data), uint32(len(data)))

	return nil
}
