package builder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/vfarchive/vfa/vfaerr"
)

// manifestRecord is one line of a job's gzip-compressed enumeration log: a
// record of a single path written into the archive, for offline auditing
// without loading the archive itself.
type manifestRecord struct {
	Path    string `json:"path"`
	Index   uint32 `json:"index"`
	Hash    uint32 `json:"hash"`
	RawSize uint32 `json:"rawSize"`
}

// manifestWriter accumulates manifestRecords and flushes them as
// gzip-compressed JSON lines to archivePath + ".manifest.jsonl.gz".
type manifestWriter struct {
	path    string
	records []manifestRecord
}

func newManifestWriter(archivePath string) *manifestWriter {
	return &manifestWriter{path: archivePath + ".manifest.jsonl.gz"}
}

func (m *manifestWriter) record(path string, index, hash, rawSize uint32) {
	m.records = append(m.records, manifestRecord{Path: path, Index: index, Hash: hash, RawSize: rawSize})
}

// flush writes every accumulated record as one gzip-compressed JSON-lines
// file. It is called once per job, after the archive has been fully
// written.
func (m *manifestWriter) flush() error {
	f, err := os.Create(m.path)
	if err != nil {
		return fmt.Errorf("%w: create manifest %s: %w", vfaerr.ErrIO, m.path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	enc := json.NewEncoder(gz)

	for _, rec := range m.records {
		if err := enc.Encode(rec); err != nil {
			_ = gz.Close()
			return fmt.Errorf("%w: encode manifest record: %w", vfaerr.ErrIO, err)
		}
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: close manifest %s: %w", vfaerr.ErrIO, m.path, err)
	}

	return nil
}
