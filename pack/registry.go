// Package pack implements the process-scoped archive registry: at most one
// live handle per archive path, per-archive AES keys, wildcard path
// resolution, and parallel loading of a declared archive set.
package pack

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vfarchive/vfa/archive"
	"github.com/vfarchive/vfa/crypt"
	"github.com/vfarchive/vfa/internal/xlog"
	"github.com/vfarchive/vfa/vfaerr"
	"github.com/vfarchive/vfa/vfafile"
)

// loadedArchive pairs an open archive with the path it was loaded from, so
// LoadArchive can find an already-loaded handle by path.
type loadedArchive struct {
	path string
	arc  *archive.Archive
}

// Registry is the process-scoped archive registry. Construct one with
// Initialize; do not construct a second one in the same process.
type Registry struct {
	mu sync.Mutex

	workingDir string

	archiveKeys        map[string][]byte // lowercased archive path -> key
	registeredArchives map[string]string // lowercased resolution path/pattern -> lowercased archive name
	archiveNames       []string          // registration order

	archives []loadedArchive // load order
}

var (
	singleton     *Registry
	singletonOnce sync.Once
)

// Initialize constructs the process-wide registry singleton. It must
// precede every other pack operation; calling it twice is a programming
// error and the second call is a no-op returning the original instance.
func Initialize() *Registry {
	singletonOnce.Do(func() {
		singleton = &Registry{
			archiveKeys:        make(map[string][]byte),
			registeredArchives: make(map[string]string),
		}
	})

	return singleton
}

// Finalize unloads every archive the registry currently holds open. It
// must follow every other pack and archive operation.
func Finalize() error {
	if singleton == nil {
		return nil
	}

	singleton.mu.Lock()
	loaded := singleton.archives
	singleton.archives = nil
	singleton.mu.Unlock()

	var firstErr error
	for _, la := range loaded {
		if err := la.arc.Unload(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Register declares an archive name for a resolution path or wildcard
// pattern ("*" matches any path). Declared archives are the set
// LoadRegisteredArchives operates over.
func (r *Registry) Register(name, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(path)
	r.registeredArchives[key] = strings.ToLower(name)
	r.archiveNames = append(r.archiveNames, name)
}

// Unregister removes a previously declared archive name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lname := strings.ToLower(name)
	for path, n := range r.registeredArchives {
		if n == lname {
			delete(r.registeredArchives, path)
		}
	}

	for i, n := range r.archiveNames {
		if strings.EqualFold(n, name) {
			r.archiveNames = append(r.archiveNames[:i], r.archiveNames[i+1:]...)
			break
		}
	}
}

// SetWorkingDirectory sets the base directory GetAbsolutePath resolves
// relative paths against.
func (r *Registry) SetWorkingDirectory(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workingDir = dir
}

// GetWorkingDirectory returns the directory set by SetWorkingDirectory.
func (r *Registry) GetWorkingDirectory() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.workingDir
}

// GetAbsolutePath resolves path against the working directory if it is
// relative; absolute paths are returned unchanged.
func (r *Registry) GetAbsolutePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(r.GetWorkingDirectory(), path)
}

// SetArchiveKey associates a 32-byte AES key with an archive path.
func (r *Registry) SetArchiveKey(path string, key []byte) error {
	if len(key) != crypt.KeySize {
		return fmt.Errorf("%w: archive key must be %d bytes, got %d", vfaerr.ErrConfig, crypt.KeySize, len(key))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.archiveKeys[strings.ToLower(path)] = key

	return nil
}

func (r *Registry) keyFor(path string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.archiveKeys[strings.ToLower(path)]
}

// FindArchive returns the already-loaded handle for path, if any.
func (r *Registry) FindArchive(path string) (*archive.Archive, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lpath := strings.ToLower(path)
	for _, la := range r.archives {
		if strings.ToLower(la.path) == lpath {
			return la.arc, true
		}
	}

	return nil, false
}

// LoadArchive loads path as an archive and registers it as loaded.
// Idempotent: if path is already loaded, the existing handle is returned.
func (r *Registry) LoadArchive(path string) (*archive.Archive, error) {
	if arc, ok := r.FindArchive(path); ok {
		return arc, nil
	}

	f, err := vfafile.Open(path)
	if err != nil {
		return nil, err
	}

	arc := archive.New()
	if err := arc.Load(f, r.keyFor(path)); err != nil {
		_ = f.Close()
		return nil, err
	}

	r.mu.Lock()
	r.archives = append(r.archives, loadedArchive{path: path, arc: arc})
	r.mu.Unlock()

	return arc, nil
}

// UnloadArchive unloads arc and removes it from the registry's loaded set.
func (r *Registry) UnloadArchive(arc *archive.Archive) error {
	r.mu.Lock()
	for i, la := range r.archives {
		if la.arc == arc {
			r.archives = append(r.archives[:i], r.archives[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	return arc.Unload()
}

// LoadRegisteredArchives loads every registered archive in reverse
// registration order, in parallel across the available CPUs. Once every
// load has finished, the loaded set is reordered to registration order so
// that Open's last-loaded-first search gives overlay semantics: the
// last-registered archive shadows earlier ones.
func (r *Registry) LoadRegisteredArchives() error {
	r.mu.Lock()
	names := make([]string, len(r.archiveNames))
	copy(names, r.archiveNames)
	r.mu.Unlock()

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = r.GetAbsolutePath(name)
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := len(paths) - 1; i >= 0; i-- {
		path := paths[i]
		g.Go(func() error {
			if _, err := r.LoadArchive(path); err != nil {
				xlog.Err("pack: load registered archive %s: %v", path, err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Parallel loads append in completion order; restore registration
	// order among the archives just loaded. Archives loaded outside this
	// call keep their relative positions.
	rank := make(map[string]int, len(paths))
	for i, p := range paths {
		rank[strings.ToLower(p)] = i
	}

	r.mu.Lock()
	sort.SliceStable(r.archives, func(i, j int) bool {
		ri, iOK := rank[strings.ToLower(r.archives[i].path)]
		rj, jOK := rank[strings.ToLower(r.archives[j].path)]
		return iOK && jOK && ri < rj
	})
	r.mu.Unlock()

	return nil
}

// Create opens path for writing via the real filesystem, either truncating
// it or preserving existing contents.
func (r *Registry) Create(path string, appendExisting bool) (*vfafile.File, error) {
	if appendExisting {
		return vfafile.CreateAppend(path)
	}

	return vfafile.Create(path)
}

// Open searches loaded archives (last-loaded first, giving overlay
// semantics) for path, then falls back to the real filesystem.
func (r *Registry) Open(path string) (*vfafile.File, error) {
	r.mu.Lock()
	archives := make([]loadedArchive, len(r.archives))
	copy(archives, r.archives)
	r.mu.Unlock()

	for i := len(archives) - 1; i >= 0; i-- {
		if f, err := archives[i].arc.OpenPath(path); err == nil {
			return f, nil
		}
	}

	return vfafile.Open(path)
}

// WildcardMatch reports whether text matches pattern, where '?' matches
// exactly one character and '*' matches zero or more characters.
func WildcardMatch(text, pattern string) bool {
	return wildcardMatch(text, pattern)
}

func wildcardMatch(text, pattern string) bool {
	if pattern == "" {
		return text == ""
	}

	if pattern[0] == '*' {
		if wildcardMatch(text, pattern[1:]) {
			return true
		}
		return text != "" && wildcardMatch(text[1:], pattern)
	}

	if text == "" {
		return false
	}
	if pattern[0] != '?' && pattern[0] != text[0] {
		return false
	}

	return wildcardMatch(text[1:], pattern[1:])
}

// ConvertKeyFromAscii decodes a hex string (no separators) into raw key
// bytes, two hex characters per byte.
func ConvertKeyFromAscii(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex key: %w", vfaerr.ErrConfig, err)
	}

	return b, nil
}
