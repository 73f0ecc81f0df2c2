// Package dataset reads model manifests: CSV files that list the annotation
// files of an ensemble.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathColumn is the manifest column holding annotation file paths.
const PathColumn = "path"

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers. Lines starting with '#' are skipped.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("manifest: %s is empty (no header row)", path)
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadManifest returns the annotation paths listed in the manifest, in file
// order. Relative paths are resolved against the manifest's directory.
func LoadManifest(path string) ([]string, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if _, ok := rows[0][PathColumn]; !ok {
			return nil, fmt.Errorf("manifest: %s has no %q column", path, PathColumn)
		}
	}

	paths := make([]string, 0, len(rows))
	for i, row := range rows {
		p := row[PathColumn]
		if p == "" {
			return nil, fmt.Errorf("manifest: %s row %d has an empty %s", path, i+1, PathColumn)
		}
		paths = append(paths, p)
	}
	return ResolvePaths(paths, filepath.Dir(path)), nil
}

// ResolvePaths resolves a list of paths relative to a base directory.
// Absolute paths are returned unchanged.
func ResolvePaths(paths []string, baseDir string) []string {
	if len(paths) == 0 {
		return nil
	}

	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		if filepath.IsAbs(path) {
			resolved = append(resolved, path)
		} else {
			resolved = append(resolved, filepath.Join(baseDir, path))
		}
	}
	return resolved
}

// Merge appends manifest paths after explicit ones, dropping repeats.
func Merge(explicit, listed []string) []string {
	out := slices.Clone(explicit)
	for _, p := range listed {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
