// Package propgen implements the property-list generator: a peripheral
// utility, not part of the archive format itself, that converts
// tab-delimited text files in a folder into a single JSON array.
//
// Each input file's first line is a header of column names; each
// subsequent line becomes one JSON object mapping those column names to
// that line's tab-separated fields.
package propgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/vfarchive/vfa/vfaerr"
)

// Generate walks folder for *.txt files and writes their combined rows as
// a JSON array to outPath. The write is atomic: outPath either contains
// the complete new list or is untouched.
func Generate(folder, outPath string) error {
	var rows []map[string]string

	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("%w: read dir %s: %w", vfaerr.ErrConfig, folder, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}

		fileRows, err := parseFile(filepath.Join(folder, entry.Name()))
		if err != nil {
			return err
		}

		rows = append(rows, fileRows...)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode property list: %w", vfaerr.ErrConfig, err)
	}

	if err := atomic.WriteFile(outPath, strings.NewReader(string(out))); err != nil {
		return fmt.Errorf("%w: write %s: %w", vfaerr.ErrIO, outPath, err)
	}

	return nil
}

func parseFile(path string) ([]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", vfaerr.ErrConfig, path, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, nil
	}

	header := strings.Split(lines[0], "\t")

	var rows []map[string]string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			} else {
				row[col] = ""
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}
