package archive

import "github.com/vfarchive/vfa/section"

// EnumerateFiles returns a snapshot of every live entry record. Mutating
// the returned entries has no effect on the archive.
func (a *Archive) EnumerateFiles() []section.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]section.Entry, 0, len(a.files))
	for _, e := range a.files {
		out = append(out, *e)
	}

	return out
}
