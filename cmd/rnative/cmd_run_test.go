package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRunCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)
	m2 := writeTestFile(t, dir, "model_2.json", fullHairpin)
	m3 := writeTestFile(t, dir, "model_3.yaml", partialHairpin)

	stdout, _, err := runCmd(t, m1, m2, m3, "--format", "json", "--no-save")
	require.NoError(t, err)

	var report struct {
		Mode         string           `json:"mode"`
		Threshold    int              `json:"threshold"`
		Interactions []map[string]any `json:"interactions"`
		Ranking      []struct {
			Rank  int      `json:"rank"`
			Model string   `json:"model"`
			INF   *float64 `json:"inf"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, "canonical", report.Mode)
	assert.Equal(t, 2, report.Threshold)
	assert.Len(t, report.Interactions, 3)
	require.Len(t, report.Ranking, 3)
	assert.Equal(t, "model_1", report.Ranking[0].Model)
	assert.Equal(t, 1, report.Ranking[1].Rank)
	assert.Equal(t, "model_3", report.Ranking[2].Model)
	require.NotNil(t, report.Ranking[2].INF)
	assert.Less(t, *report.Ranking[2].INF, 1.0)

	_, err = os.Stat(filepath.Join(dir, "results"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "--no-save must not create the results directory")
}

func TestRunCommand_WritesReports(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	out := filepath.Join(dir, "reports")

	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)
	m2 := writeTestFile(t, dir, "model_2.json", partialHairpin)

	stdout, stderr, err := runCmd(t, m1, m2, "--format", "csv", "--output", out, "--gzip")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rank,model,inf,f1,fuzzy_f1")

	matches, err := filepath.Glob(filepath.Join(out, "*", "*.csv.gz"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, 2, strings.Count(stderr, "Report written to"))
}

func TestRunCommand_UsesProjectConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeTestFile(t, dir, ".rnative.yaml", "consensus:\n  mode: stacking\ndefaults:\n  format: markdown\n")

	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)
	m2 := writeTestFile(t, dir, "model_2.json", fullHairpin)

	stdout, _, err := runCmd(t, m1, m2, "--no-save")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Consensus report")
	assert.Contains(t, stdout, "**Mode:** stacking")
	assert.Contains(t, stdout, "stacking")
}

func TestRunCommand_Reference(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	m1 := writeTestFile(t, dir, "model_1.json", partialHairpin)
	m2 := writeTestFile(t, dir, "model_2.json", partialHairpin)
	m3 := writeTestFile(t, dir, "model_3.json", fullHairpin)
	ref := writeTestFile(t, dir, "ref.dbn", ">hairpin\nGGGCCC\n((()))\n")

	stdout, _, err := runCmd(t, m1, m2, m3, "--reference", ref, "--format", "json", "--no-save")
	require.NoError(t, err)

	var report struct {
		Interactions []struct {
			InReference bool `json:"in_reference"`
		} `json:"interactions"`
		Ranking []struct {
			Model string `json:"model"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Interactions, 3)
	for _, it := range report.Interactions {
		assert.True(t, it.InReference)
	}
	assert.Equal(t, "model_3", report.Ranking[0].Model)
}

func TestRunCommand_SingleModelIsUnrankable(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)

	stdout, _, err := runCmd(t, m1, "--no-save")
	var unrankable *UnrankableError
	require.ErrorAs(t, err, &unrankable)
	assert.Equal(t, ExitUnrankable, exitCode(err))
	assert.Contains(t, stdout, "CONSENSUS INTERACTIONS (3)")
	assert.Contains(t, stdout, "not enough models to rank")
}

func TestRunCommand_ExcludesBrokenModels(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)
	m2 := writeTestFile(t, dir, "model_2.json", fullHairpin)
	bad := writeTestFile(t, dir, "broken.yaml", brokenAnnotation)

	stdout, _, err := runCmd(t, m1, bad, m2, "--no-save")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Warnings:")
	assert.Contains(t, stdout, "broken.yaml excluded")
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	m1 := writeTestFile(t, dir, "model_1.json", fullHairpin)
	bad := writeTestFile(t, dir, "broken.yaml", brokenAnnotation)

	t.Run("invalid confidence", func(t *testing.T) {
		_, _, err := runCmd(t, m1, m1, "--confidence", "1.5", "--no-save")
		require.ErrorIs(t, err, consensus.ErrInvalidConfidence)
		assert.Equal(t, ExitError, exitCode(err))
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, _, err := runCmd(t, m1, m1, "--mode", "sideways", "--no-save")
		require.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := runCmd(t, m1, m1, "--format", "pdf", "--no-save")
		require.ErrorContains(t, err, "unsupported format")
	})

	t.Run("no usable models", func(t *testing.T) {
		_, _, err := runCmd(t, bad, "--no-save")
		require.ErrorContains(t, err, "no usable models")
	})

	t.Run("missing reference", func(t *testing.T) {
		_, _, err := runCmd(t, m1, m1, "--reference", filepath.Join(dir, "nope.dbn"), "--no-save")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRunCommand_Manifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	modelsDir := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	writeTestFile(t, modelsDir, "model_1.json", fullHairpin)
	writeTestFile(t, modelsDir, "model_2.json", fullHairpin)
	m3 := writeTestFile(t, dir, "model_3.yaml", partialHairpin)
	manifest := writeTestFile(t, dir, "ensemble.csv", "path\nmodels/model_1.json\nmodels/model_2.json\n")

	stdout, _, err := runCmd(t, m3, "--manifest", manifest, "--format", "json", "--no-save")
	require.NoError(t, err)

	var report struct {
		TotalModels int `json:"total_models"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 3, report.TotalModels)

	t.Run("no models at all", func(t *testing.T) {
		_, _, err := runCmd(t, "--no-save")
		require.ErrorContains(t, err, "no models given")
	})

	t.Run("manifest without path column", func(t *testing.T) {
		bad := writeTestFile(t, dir, "bad.csv", "file\nmodels/model_1.json\n")
		_, _, err := runCmd(t, "--manifest", bad, "--no-save")
		require.ErrorContains(t, err, `no "path" column`)
	})
}
