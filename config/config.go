// Package config loads the builder's job list: a JSON (JSON-with-comments,
// via tailscale/hujson) array of archive build jobs.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/vfarchive/vfa/vfaerr"
)

// Job describes one archive to build: a source directory to walk, the
// output archive, and the transforms applied to each stored path.
type Job struct {
	Dir       string    `json:"dir"`
	VisualDir string    `json:"visualdir"`
	File      string    `json:"file"`
	Key       []int     `json:"key,omitempty"`
	Type      int       `json:"type"`
	Version   int       `json:"version"`
	Ignores   []string  `json:"ignores,omitempty"`
	Patches   PatchList `json:"patches,omitempty"`
}

// Patch is a single path rewrite. The builder applies patches in
// declaration order, replacing the first occurrence of From with To in
// each candidate path.
type Patch struct {
	From string
	To   string
}

// PatchList preserves the declaration order of the job list's "patches"
// object. encoding/json's native map[string]string decoding does not
// preserve key order, but rewrite order is semantically significant, so
// PatchList implements json.Unmarshaler itself, walking the object with a
// token-level json.Decoder instead.
type PatchList []Patch

// UnmarshalJSON decodes a JSON object into an order-preserving PatchList.
func (p *PatchList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: \"patches\" must be a JSON object", vfaerr.ErrConfig)
	}

	var out PatchList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}

		out = append(out, Patch{From: key, To: value})
	}

	*p = out

	return nil
}

// Load reads and validates a job list from path, tolerating JSON comments
// and trailing commas via hujson.
func Load(path string) ([]Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", vfaerr.ErrConfig, path, err)
	}

	standard, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", vfaerr.ErrConfig, path, err)
	}

	var jobs []Job
	if err := json.Unmarshal(standard, &jobs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", vfaerr.ErrConfig, path, err)
	}

	for i := range jobs {
		if err := jobs[i].validate(); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

func (j Job) validate() error {
	if j.Dir == "" {
		return fmt.Errorf("%w: job missing \"dir\"", vfaerr.ErrConfig)
	}
	if info, err := os.Stat(j.Dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: source directory %q does not exist", vfaerr.ErrConfig, j.Dir)
	}
	if j.File == "" {
		return fmt.Errorf("%w: job missing \"file\"", vfaerr.ErrConfig)
	}
	if _, err := os.Stat(j.File); err == nil {
		return fmt.Errorf("%w: output archive %q already exists", vfaerr.ErrConfig, j.File)
	}
	if j.Type < 0 || j.Type > 3 {
		return fmt.Errorf("%w: job %q has invalid type %d", vfaerr.ErrConfig, j.File, j.Type)
	}
	if j.Version == 0 {
		return fmt.Errorf("%w: job %q has zero version", vfaerr.ErrConfig, j.File)
	}
	if j.Key != nil && len(j.Key) != 32 {
		return fmt.Errorf("%w: job %q key must have 32 elements, got %d", vfaerr.ErrConfig, j.File, len(j.Key))
	}

	return nil
}

// KeyBytes converts Key's 0..255 integer array into raw bytes. It returns
// nil if Key is unset (a lite build will substitute its compiled-in
// constant).
func (j Job) KeyBytes() ([]byte, error) {
	if j.Key == nil {
		return nil, nil
	}

	b := make([]byte, len(j.Key))
	for i, v := range j.Key {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: key element %d out of byte range: %d", vfaerr.ErrConfig, i, v)
		}
		b[i] = byte(v)
	}

	return b, nil
}
