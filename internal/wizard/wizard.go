// Package wizard collects project settings interactively and renders them as
// a .rnative.yaml file.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/projectconfig"
	"github.com/rnapolis/rnative/internal/reporting"
	"golang.org/x/term"
)

const configTemplate = `# rnative project configuration
consensus:
  # canonical, non_canonical, stacking or all
  mode: {{ .Consensus.Mode }}
  # fraction of models that must contain an interaction, in (0, 1]
  confidence: {{ .Consensus.Confidence }}
defaults:
  workers: {{ .Defaults.Workers }}
  # table, csv, json, markdown, html or junit
  format: {{ .Defaults.Format }}
  gzip: {{ gzip .Defaults.Gzip }}
paths:
  results: {{ quote .Paths.Results }}
{{- if .Paths.Reference }}
  reference: {{ quote .Paths.Reference }}
{{- end }}
`

// RunConfigWizard runs an interactive huh form seeded with defaults and
// returns the chosen configuration.
func RunConfigWizard(in io.Reader, out io.Writer, defaults *projectconfig.ProjectConfig) (*projectconfig.ProjectConfig, error) {
	cfg := *defaults
	var (
		mode       = cfg.Consensus.Mode
		confidence = strconv.FormatFloat(cfg.Consensus.Confidence, 'f', -1, 64)
		workers    = strconv.Itoa(cfg.Defaults.Workers)
		format     = cfg.Defaults.Format
		gzip       = cfg.Defaults.Gzip != nil && *cfg.Defaults.Gzip
		results    = cfg.Paths.Results
		reference  = cfg.Paths.Reference
	)

	modeOptions := make([]huh.Option[string], 0, len(models.AllModes))
	for _, m := range models.AllModes {
		modeOptions = append(modeOptions, huh.NewOption(string(m), string(m)))
	}
	formatOptions := make([]huh.Option[string], 0, len(reporting.Formats))
	for _, f := range reporting.Formats {
		formatOptions = append(formatOptions, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Consensus mode").
				Description("Which interactions take part in the consensus").
				Options(modeOptions...).
				Value(&mode),
			huh.NewInput().
				Title("Confidence level").
				Description("Fraction of models that must agree, in (0, 1]").
				Value(&confidence).
				Validate(func(s string) error {
					_, err := parseConfidence(s)
					return err
				}),
			huh.NewInput().
				Title("Workers").
				Description("Models annotated and scored in parallel").
				Value(&workers).
				Validate(func(s string) error {
					_, err := parseWorkers(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report format").
				Options(formatOptions...).
				Value(&format),
			huh.NewConfirm().
				Title("Compress report files with gzip?").
				Value(&gzip),
			huh.NewInput().
				Title("Results directory").
				Value(&results),
			huh.NewInput().
				Title("Reference structure").
				Description("Optional dot-bracket file used when --reference is not given").
				Value(&reference),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	conf, err := parseConfidence(confidence)
	if err != nil {
		return nil, err
	}
	n, err := parseWorkers(workers)
	if err != nil {
		return nil, err
	}

	cfg.Consensus.Mode = mode
	cfg.Consensus.Confidence = conf
	cfg.Defaults.Workers = n
	cfg.Defaults.Format = format
	cfg.Defaults.Gzip = &gzip
	cfg.Paths.Results = strings.TrimSpace(results)
	cfg.Paths.Reference = strings.TrimSpace(reference)
	return &cfg, nil
}

// GenerateConfigYAML renders a commented .rnative.yaml from cfg.
func GenerateConfigYAML(cfg *projectconfig.ProjectConfig) (string, error) {
	tmpl, err := template.New("config").Funcs(template.FuncMap{
		"quote": strconv.Quote,
		"gzip": func(b *bool) bool {
			return b != nil && *b
		},
	}).Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func parseConfidence(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 1 {
		return 0, fmt.Errorf("confidence must be a number in (0, 1]")
	}
	return v, nil
}

func parseWorkers(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 0, fmt.Errorf("workers must be a positive integer")
	}
	return v, nil
}
