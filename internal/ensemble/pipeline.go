// Package ensemble runs the end-to-end evaluation of a set of structural
// models: annotation, aggregation, consensus in every mode, and ranking.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rnapolis/rnative/internal/aggregate"
	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/rnapolis/rnative/internal/dotbracket"
	"github.com/rnapolis/rnative/internal/metrics"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/ranking"
)

// ErrNoModels is returned when every source was excluded.
var ErrNoModels = errors.New("no usable models in ensemble")

// MinRankable is the smallest ensemble that can be ranked.
const MinRankable = 2

// Config drives one evaluation.
type Config struct {
	Consensus consensus.Config
	Workers   int
}

// Result is the outcome of one evaluation.
type Result struct {
	RunID       string
	Mode        models.ConsensusMode
	Confidence  float64
	TotalModels int
	Threshold   int

	// Consensus holds the resolved set for every mode; Mode selects the one
	// used for ranking.
	Consensus map[models.ConsensusMode]*consensus.Set
	Ranked    []models.RankedModel
	Summary   metrics.Summary

	Rankable   bool
	Warnings   []string
	Exclusions []Exclusion
}

// Selected returns the consensus set of the configured mode.
func (r *Result) Selected() *consensus.Set {
	return r.Consensus[r.Mode]
}

// Interactions returns report rows for the selected consensus.
func (r *Result) Interactions() []ranking.InteractionRow {
	set := r.Selected()
	if set == nil {
		return nil
	}
	return ranking.InteractionRows(set)
}

// Rows returns report rows for the ranking.
func (r *Result) Rows() []ranking.Row {
	return ranking.Rows(r.Ranked)
}

// Run evaluates an already annotated ensemble. reference may be nil. A bad
// configuration fails before any work starts; composition and reference
// mismatches only add warnings.
func Run(ctx context.Context, cfg Config, ensemble []*models.Model, reference *dotbracket.Structure) (*Result, error) {
	if err := cfg.Consensus.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Mode:        cfg.Consensus.Mode,
		Confidence:  cfg.Consensus.Confidence,
		TotalModels: len(ensemble),
		Threshold:   consensus.Threshold(cfg.Consensus.Confidence, len(ensemble)),
	}

	agg := aggregate.Aggregate(ensemble)
	for _, mm := range agg.Mismatches {
		res.Warnings = append(res.Warnings, mm.String())
	}

	var ref *models.Reference
	if reference != nil {
		r, warns, err := dotbracket.ToReference(*reference, agg.Frame)
		if err != nil {
			return nil, fmt.Errorf("reference structure: %w", err)
		}
		ref = r
		res.Warnings = append(res.Warnings, warns...)
	}

	sets, err := consensus.ResolveModes(ctx, &agg.Multisets, ref, cfg.Consensus.Confidence, models.AllModes...)
	if err != nil {
		return nil, err
	}
	res.Consensus = sets

	if len(ensemble) < MinRankable {
		msg := fmt.Sprintf("ensemble has %d usable model(s); at least %d are needed for ranking", len(ensemble), MinRankable)
		slog.Warn("Ensemble too small to rank", "models", len(ensemble))
		res.Warnings = append(res.Warnings, msg)
		res.Ranked = []models.RankedModel{}
		return res, nil
	}

	ranked, err := ranking.Rank(ctx, ensemble, ranking.Input{
		Consensus: sets[res.Mode],
		Reference: ref,
		Weights:   agg.ForMode(res.Mode).Probabilities(agg.TotalModels),
		Workers:   cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	res.Ranked = ranked
	res.Rankable = true

	scores := make([]float64, len(ranked))
	for i, rm := range ranked {
		scores[i] = rm.INF
	}
	res.Summary = metrics.Summarize(scores)

	slog.Debug("Ensemble ranked",
		"run_id", res.RunID,
		"mode", res.Mode,
		"models", res.TotalModels,
		"consensus", sets[res.Mode].Len())

	return res, nil
}

// Evaluate annotates sources and runs the evaluation. Sources that fail to
// annotate are excluded and reported on the result. It returns ErrNoModels
// when nothing could be loaded.
func Evaluate(ctx context.Context, cfg Config, sources []string, annotator Annotator, reference *dotbracket.Structure) (*Result, error) {
	if err := cfg.Consensus.Validate(); err != nil {
		return nil, err
	}

	loaded, excluded, err := Load(ctx, sources, annotator, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w (%d source(s) excluded)", ErrNoModels, len(excluded))
	}

	res, err := Run(ctx, cfg, loaded, reference)
	if err != nil {
		return nil, err
	}
	res.Exclusions = excluded
	for _, ex := range excluded {
		res.Warnings = append(res.Warnings, ex.String())
	}
	return res, nil
}
