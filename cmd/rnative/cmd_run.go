package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rnapolis/rnative/internal/annotation"
	"github.com/rnapolis/rnative/internal/dataset"
	"github.com/rnapolis/rnative/internal/dotbracket"
	"github.com/rnapolis/rnative/internal/ensemble"
	"github.com/rnapolis/rnative/internal/projectconfig"
	"github.com/rnapolis/rnative/internal/reporting"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type runOptions struct {
	mode       string
	confidence float64
	reference  string
	workers    int
	format     string
	output     string
	manifest   string
	gzip       bool
	noSave     bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [model ...]",
		Short: "Build the ensemble consensus and rank the models",
		Long: `Build the consensus of an ensemble of annotated models and rank each model
by its Interaction Network Fidelity (INF) to that consensus.

Every model is an annotation file (JSON or YAML, optionally gzip-compressed).
Models may also be listed in a CSV manifest with a "path" column; relative
paths are resolved against the manifest's directory. Models that fail to
load are excluded and reported as warnings. A reference
structure in dot-bracket notation, when given, forces its base pairs into the
consensus and marks residues written as 'x' as unpaired.

Defaults come from .rnative.yaml (see 'rnative init'); flags override them.
Reports are printed and also written under the results directory unless
--no-save is set.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Consensus mode: canonical, non_canonical, stacking or all")
	cmd.Flags().Float64VarP(&opts.confidence, "confidence", "c", 0, "Fraction of models that must contain an interaction, in (0, 1]")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference structure in dot-bracket notation")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Models annotated and scored in parallel")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: table, csv, json, markdown, html or junit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Directory for report files (default from .rnative.yaml)")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "CSV file listing model paths in a \"path\" column")
	cmd.Flags().BoolVar(&opts.gzip, "gzip", false, "Compress report files with gzip")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Print the report without writing files")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string, opts *runOptions) error {
	sources := args
	if opts.manifest != "" {
		listed, err := dataset.LoadManifest(opts.manifest)
		if err != nil {
			return err
		}
		sources = dataset.Merge(args, listed)
	}
	if len(sources) == 0 {
		return errors.New("no models given: pass annotation files or --manifest")
	}

	cfg, err := projectconfig.Load(".")
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg, opts)

	consensusCfg, err := cfg.ConsensusSettings()
	if err != nil {
		return err
	}
	format, err := reporting.ParseFormat(cfg.Defaults.Format)
	if err != nil {
		return err
	}

	var ref *dotbracket.Structure
	if cfg.Paths.Reference != "" {
		s, err := loadReference(cfg.Paths.Reference)
		if err != nil {
			return err
		}
		ref = &s
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	annotator, stopProgress := withProgress(cmd.ErrOrStderr(), annotation.NewFileAnnotator(), len(sources))
	res, err := ensemble.Evaluate(ctx, ensemble.Config{
		Consensus: consensusCfg,
		Workers:   cfg.Defaults.Workers,
	}, sources, annotator, ref)
	stopProgress()
	if err != nil {
		return err
	}

	report := reporting.FromResult(res)
	out := cmd.OutOrStdout()
	if err := reporting.Write(out, report, reporting.Options{Format: format, Width: terminalWidth(out)}); err != nil {
		return err
	}

	if !opts.noSave {
		paths, err := reporting.WriteFiles(cfg.Paths.Results, report, reporting.Options{Format: format}, *cfg.Defaults.Gzip)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", p) //nolint:errcheck
		}
	}

	if !res.Rankable {
		return &UnrankableError{
			Message: fmt.Sprintf("consensus computed from %d model(s); at least %d are needed for ranking", res.TotalModels, ensemble.MinRankable),
		}
	}
	return nil
}

// applyRunFlags overlays explicitly set flags on the project configuration.
func applyRunFlags(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *runOptions) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Consensus.Mode = opts.mode
	}
	if flags.Changed("confidence") {
		cfg.Consensus.Confidence = opts.confidence
	}
	if flags.Changed("reference") {
		cfg.Paths.Reference = opts.reference
	}
	if flags.Changed("workers") {
		cfg.Defaults.Workers = opts.workers
	}
	if flags.Changed("format") {
		cfg.Defaults.Format = opts.format
	}
	if flags.Changed("output") {
		cfg.Paths.Results = opts.output
	}
	if flags.Changed("gzip") {
		cfg.Defaults.Gzip = &opts.gzip
	}
}

func loadReference(path string) (dotbracket.Structure, error) {
	data, err := annotation.ReadFile(path)
	if err != nil {
		return dotbracket.Structure{}, err
	}
	s, err := dotbracket.Parse(string(data))
	if err != nil {
		return dotbracket.Structure{}, fmt.Errorf("parsing reference %s: %w", path, err)
	}
	return s, nil
}

// terminalWidth is 0 (unbounded) unless w is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
