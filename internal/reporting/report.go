// Package reporting renders an ensemble evaluation as tables, CSV, JSON,
// Markdown, HTML or JUnit XML, and writes report files to a results
// directory.
package reporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rnapolis/rnative/internal/ensemble"
	"github.com/rnapolis/rnative/internal/metrics"
	"github.com/rnapolis/rnative/internal/ranking"
)

// Format is an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJUnit    Format = "junit"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatMarkdown, FormatHTML, FormatJUnit}

// ParseFormat accepts a format name case-insensitively, with "md" as an
// alias for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unsupported format %q: must be one of %s", s, strings.Join(names, ", "))
}

// Extension is the file extension used when writing reports to disk.
func (f Format) Extension() string {
	switch f {
	case FormatTable:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	case FormatJUnit:
		return ".xml"
	default:
		return "." + string(f)
	}
}

// Report is the rendered view of one evaluation.
type Report struct {
	RunID        string
	Mode         string
	Confidence   float64
	Threshold    int
	TotalModels  int
	Rankable     bool
	Interactions []ranking.InteractionRow
	Ranking      []ranking.Row
	Summary      metrics.Summary
	Warnings     []string
}

// FromResult flattens an evaluation result.
func FromResult(res *ensemble.Result) *Report {
	return &Report{
		RunID:        res.RunID,
		Mode:         string(res.Mode),
		Confidence:   res.Confidence,
		Threshold:    res.Threshold,
		TotalModels:  res.TotalModels,
		Rankable:     res.Rankable,
		Interactions: res.Interactions(),
		Ranking:      res.Rows(),
		Summary:      res.Summary,
		Warnings:     res.Warnings,
	}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Width caps the table output width; 0 means unbounded.
	Width int
}

// Write renders r to w.
func Write(w io.Writer, r *Report, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		return WriteTable(w, r, opts.Width)
	case FormatCSV:
		if err := WriteInteractionsCSV(w, r.Interactions); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := WriteRankingCSV(w, r.Ranking); err != nil {
			return err
		}
		if len(r.Warnings) == 0 {
			return nil
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return WriteWarningsCSV(w, r.Warnings)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatJUnit:
		return WriteJUnit(w, r)
	default:
		return fmt.Errorf("unsupported format %q", opts.Format)
	}
}

// WriteFiles writes the report under dir/<run id>/ and returns the paths
// written. CSV produces one file per table (warnings.csv only when there are
// warnings), every other format a single
// report file. With compress set, each file is gzip-compressed and gets a
// .gz suffix.
func WriteFiles(dir string, r *Report, opts Options, compress bool) ([]string, error) {
	runDir := filepath.Join(dir, r.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	type part struct {
		name   string
		render func(io.Writer) error
	}
	var parts []part
	if opts.Format == FormatCSV {
		parts = []part{
			{"interactions.csv", func(w io.Writer) error { return WriteInteractionsCSV(w, r.Interactions) }},
			{"ranking.csv", func(w io.Writer) error { return WriteRankingCSV(w, r.Ranking) }},
		}
		if len(r.Warnings) > 0 {
			parts = append(parts, part{"warnings.csv", func(w io.Writer) error { return WriteWarningsCSV(w, r.Warnings) }})
		}
	} else {
		parts = []part{
			{"report" + opts.Format.Extension(), func(w io.Writer) error { return Write(w, r, opts) }},
		}
	}

	var written []string
	for _, p := range parts {
		path := filepath.Join(runDir, p.name)
		if compress {
			path += ".gz"
		}
		if err := writeFile(path, compress, p.render); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, compress bool, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if !compress {
		return render(f)
	}

	zw := gzip.NewWriter(f)
	if err := render(zw); err != nil {
		return err
	}
	return zw.Close()
}
