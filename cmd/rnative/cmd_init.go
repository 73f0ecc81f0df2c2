package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rnapolis/rnative/internal/projectconfig"
	"github.com/rnapolis/rnative/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize an rnative project",
		Long: `Initialize a project directory with a .rnative.yaml configuration, a models/
directory for annotation files and a results/ directory for reports.

Use --interactive to choose the consensus mode, confidence level and report
settings with a guided wizard. Existing files are never overwritten.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided configuration wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfg := projectconfig.New()
	configPath := filepath.Join(dir, projectconfig.FileName)
	configExists, err := exists(configPath)
	if err != nil {
		return err
	}

	if !configExists && interactive {
		cfg, err = wizard.RunConfigWizard(cmd.InOrStdin(), out, cfg)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Project created in %s\n\n", dir) //nolint:errcheck

	if configExists {
		fmt.Fprintf(out, "  exists   %-16s Project configuration\n", projectconfig.FileName) //nolint:errcheck
	} else {
		content, err := wizard.GenerateConfigYAML(cfg)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", projectconfig.FileName, err)
		}
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", projectconfig.FileName, err)
		}
		fmt.Fprintf(out, "  created  %-16s Project configuration\n", projectconfig.FileName) //nolint:errcheck
	}

	for _, d := range []struct{ name, desc string }{
		{"models", "Model annotation files"},
		{cfg.Paths.Results, "Report output"},
	} {
		path := filepath.Join(dir, d.name)
		status := "created"
		if ok, err := exists(path); err != nil {
			return err
		} else if ok {
			status = "exists"
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		fmt.Fprintf(out, "  %-8s %-16s %s\n", status, filepath.Clean(d.name)+"/", d.desc) //nolint:errcheck
	}

	fmt.Fprintf(out, "\nNext: rnative run models/*.json\n") //nolint:errcheck
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}
