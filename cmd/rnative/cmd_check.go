package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rnapolis/rnative/internal/annotation"
	"github.com/rnapolis/rnative/internal/validation"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <model> [model ...]",
		Short: "Validate model annotation files",
		Long: `Validate annotation files against the annotation schema without running an
evaluation.

Each file is reported with its residue and interaction counts, or with every
schema violation found. The command fails if any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: checkCommandE,
	}
}

// checkResult describes one validated file.
type checkResult struct {
	path     string
	problems []string
	summary  string
}

func checkCommandE(cmd *cobra.Command, args []string) error {
	results := make([]checkResult, 0, len(args))
	for _, path := range args {
		results = append(results, checkFile(path))
	}

	nameWidth := 0
	for _, r := range results {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.path))
	}

	w := cmd.OutOrStdout()
	invalid := 0
	for _, r := range results {
		if len(r.problems) == 0 {
			fmt.Fprintf(w, "✅ %s  %s\n", padRight(r.path, nameWidth), r.summary) //nolint:errcheck
			continue
		}
		invalid++
		fmt.Fprintf(w, "❌ %s\n", r.path) //nolint:errcheck
		for _, p := range r.problems {
			fmt.Fprintf(w, "     %s\n", p) //nolint:errcheck
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d annotation file(s) invalid", invalid, len(results))
	}
	return nil
}

func checkFile(path string) checkResult {
	data, err := annotation.ReadFile(path)
	if err != nil {
		return checkResult{path: path, problems: []string{err.Error()}}
	}
	if problems := validation.ValidateAnnotationBytes(data); len(problems) > 0 {
		return checkResult{path: path, problems: problems}
	}
	m, err := annotation.Decode(data, annotation.ModelName(path))
	if err != nil {
		return checkResult{path: path, problems: []string{err.Error()}}
	}
	return checkResult{
		path: path,
		summary: fmt.Sprintf("%d residues, %d canonical, %d non-canonical, %d stackings",
			len(m.Residues), len(m.CanonicalPairs), len(m.NonCanonicalPairs), len(m.Stackings)),
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
