package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rnapolis/rnative/internal/annotation"
	"github.com/rnapolis/rnative/internal/dotbracket"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/ranking"
	"github.com/rnapolis/rnative/internal/scoring"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var mode, format string

	cmd := &cobra.Command{
		Use:   "compare <reference.dbn> <model>",
		Short: "Score one model against a reference structure",
		Long: `Score a single annotated model against a reference structure written in
dot-bracket notation.

Reports true/false positives and negatives with PPV, sensitivity, INF and F1.
Reference pairs are compared as cWW base pairs; residues marked 'x' in the
reference must stay unpaired.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareCommandE(cmd, args, mode, format)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(models.ModeCanonical), "Interactions compared: canonical, non_canonical, stacking or all")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")

	return cmd
}

// comparison is the result of scoring one model against a reference.
type comparison struct {
	Model     string            `json:"model"`
	Reference string            `json:"reference"`
	Mode      string            `json:"mode"`
	Counts    scoring.Confusion `json:"counts"`
	PPV       *float64          `json:"ppv"`
	STY       *float64          `json:"sty"`
	INF       *float64          `json:"inf"`
	F1        float64           `json:"f1"`
	Warnings  []string          `json:"warnings,omitempty"`
}

func compareCommandE(cmd *cobra.Command, args []string, modeFlag, format string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", format)
	}
	mode, err := models.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	structure, err := loadReference(args[0])
	if err != nil {
		return err
	}
	model, err := annotation.NewFileAnnotator().Annotate(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	c, err := compareModel(structure, model, mode)
	if err != nil {
		return err
	}
	c.Reference = args[0]

	if format == "json" {
		return printComparisonJSON(cmd.OutOrStdout(), c)
	}
	printComparisonTable(cmd.OutOrStdout(), c)
	return nil
}

func compareModel(structure dotbracket.Structure, model *models.Model, mode models.ConsensusMode) (*comparison, error) {
	ref, warnings, err := dotbracket.ToReference(structure, model.Residues)
	if err != nil {
		return nil, err
	}

	reference := models.InteractionSet{}
	for it := range ref.Interactions {
		if mode.Includes(it) {
			reference.Add(it)
		}
	}
	predicted := model.InteractionSet(mode)

	counts := scoring.Compare(reference, predicted)
	f1, err := scoring.F1(reference, predicted, ranking.Constraints([]*models.Model{model}, ref, mode))
	if err != nil {
		return nil, err
	}

	return &comparison{
		Model:    model.Name,
		Mode:     string(mode),
		Counts:   counts,
		PPV:      finite(counts.PPV()),
		STY:      finite(counts.STY()),
		INF:      finite(counts.INF()),
		F1:       f1,
		Warnings: warnings,
	}, nil
}

func printComparisonTable(w io.Writer, c *comparison) {
	var b strings.Builder
	fmt.Fprintf(&b, "Model:      %s\n", c.Model)
	fmt.Fprintf(&b, "Reference:  %s (%s)\n", c.Reference, c.Mode)
	fmt.Fprintf(&b, "TP %-6.0f FP %-6.0f FN %-6.0f\n", c.Counts.TP, c.Counts.FP, c.Counts.FN)
	fmt.Fprintf(&b, "PPV  %s\n", formatOptional(c.PPV))
	fmt.Fprintf(&b, "STY  %s\n", formatOptional(c.STY))
	fmt.Fprintf(&b, "INF  %s\n", formatOptional(c.INF))
	fmt.Fprintf(&b, "F1   %.4f\n", c.F1)
	for _, msg := range c.Warnings {
		fmt.Fprintf(&b, "⚠ %s\n", msg)
	}
	io.WriteString(w, b.String()) //nolint:errcheck
}

func printComparisonJSON(w io.Writer, c *comparison) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func finite(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func formatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}
