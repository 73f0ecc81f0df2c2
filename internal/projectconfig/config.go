// Package projectconfig provides the ProjectConfig struct and loader for
// .rnative.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".rnative.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultMode       = models.ModeCanonical
	DefaultConfidence = consensus.DefaultConfidence

	DefaultWorkers = 4
	DefaultFormat  = "table"

	DefaultResultsDir = "results/"
)

// maxWalkUp bounds how many parent directories Load searches.
const maxWalkUp = 10

// ConsensusConfig selects the consensus mode and confidence level.
type ConsensusConfig struct {
	Mode       string  `yaml:"mode,omitempty"`
	Confidence float64 `yaml:"confidence,omitempty"`
}

// DefaultsConfig holds default execution and output parameters.
type DefaultsConfig struct {
	Workers int    `yaml:"workers,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Gzip    *bool  `yaml:"gzip,omitempty"`
}

// PathsConfig holds the results directory and an optional default reference
// structure.
type PathsConfig struct {
	Results   string `yaml:"results,omitempty"`
	Reference string `yaml:"reference,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .rnative.yaml.
type ProjectConfig struct {
	Consensus ConsensusConfig `yaml:"consensus,omitempty"`
	Defaults  DefaultsConfig  `yaml:"defaults,omitempty"`
	Paths     PathsConfig     `yaml:"paths,omitempty"`

	// Path is the file the values were read from, empty for pure defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Consensus: ConsensusConfig{
			Mode:       string(DefaultMode),
			Confidence: DefaultConfidence,
		},
		Defaults: DefaultsConfig{
			Workers: DefaultWorkers,
			Format:  DefaultFormat,
			Gzip:    boolPtr(false),
		},
		Paths: PathsConfig{
			Results: DefaultResultsDir,
		},
	}
}

// ConsensusSettings converts the configured mode and confidence into a
// validated consensus configuration.
func (c *ProjectConfig) ConsensusSettings() (consensus.Config, error) {
	mode, err := models.ParseMode(c.Consensus.Mode)
	if err != nil {
		return consensus.Config{}, err
	}
	cfg := consensus.Config{Mode: mode, Confidence: c.Consensus.Confidence}
	if err := cfg.Validate(); err != nil {
		return consensus.Config{}, err
	}
	return cfg, nil
}

// Load finds .rnative.yaml by walking up from startDir, validates it against
// the configuration schema, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if problems := validation.ValidateConfigBytes(data); len(problems) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", path, strings.Join(problems, "; "))
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// findConfigFile walks up from dir looking for .rnative.yaml. Returns
// os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxWalkUp {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Consensus.Mode != "" {
		dst.Consensus.Mode = src.Consensus.Mode
	}
	if src.Consensus.Confidence != 0 {
		dst.Consensus.Confidence = src.Consensus.Confidence
	}

	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Format != "" {
		dst.Defaults.Format = src.Defaults.Format
	}
	if src.Defaults.Gzip != nil {
		dst.Defaults.Gzip = src.Defaults.Gzip
	}

	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}
	if src.Paths.Reference != "" {
		dst.Paths.Reference = src.Paths.Reference
	}
}

func boolPtr(b bool) *bool {
	return &b
}
