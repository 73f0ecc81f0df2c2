// Package ranking scores every model of an ensemble against a consensus and
// orders them.
package ranking

import (
	"context"
	"math"
	"slices"

	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/rnapolis/rnative/internal/scoring"
	"golang.org/x/sync/errgroup"
)

// Input is everything needed to score models under one consensus mode.
type Input struct {
	Consensus *consensus.Set
	// Reference supplies required (listed) and forbidden (unpaired) interactions
	// for F1. Optional.
	Reference *models.Reference
	// Weights are per-interaction probabilities for fuzzy F1, usually every
	// interaction observed in the ensemble. Optional.
	Weights map[models.Interaction]float64
	// Workers bounds concurrent scoring; values < 1 mean one per model.
	Workers int
}

// Rank scores each model and returns them sorted by descending INF with ranks
// assigned. NaN scores sort last. An empty ensemble gives an empty ranking.
func Rank(ctx context.Context, ensemble []*models.Model, in Input) ([]models.RankedModel, error) {
	if len(ensemble) == 0 {
		return []models.RankedModel{}, nil
	}

	mode := in.Consensus.Mode
	cons := Constraints(ensemble, in.Reference, mode)
	reference := in.Consensus.InteractionSet()

	ranked := make([]models.RankedModel, len(ensemble))

	eg, ctx := errgroup.WithContext(ctx)
	if in.Workers > 0 {
		eg.SetLimit(in.Workers)
	}
	for idx, m := range ensemble {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			predicted := m.InteractionSet(mode)

			f1, err := scoring.F1(reference, predicted, cons)
			if err != nil {
				return err
			}
			fuzzy, err := scoring.FuzzyF1(in.Weights, scoring.Membership(predicted), cons)
			if err != nil {
				return err
			}

			ranked[idx] = models.RankedModel{
				Model:   m,
				INF:     scoring.INF(reference, predicted),
				F1:      f1,
				FuzzyF1: fuzzy,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	Order(ranked)
	return ranked, nil
}

// Order sorts by descending INF, NaN last, keeping input order among equal
// scores, then assigns ranks. Equal scores share the 1-based position of the
// first of them.
func Order(ranked []models.RankedModel) {
	slices.SortStableFunc(ranked, func(a, b models.RankedModel) int {
		return compareDescending(a.INF, b.INF)
	})
	for i := range ranked {
		if i > 0 && sameScore(ranked[i-1].INF, ranked[i].INF) {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}
}

func compareDescending(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func sameScore(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// Constraints builds F1 constraints for one mode: reference interactions of
// the mode are required, and every interaction some model predicts that the
// reference forbids is forbidden.
func Constraints(ensemble []*models.Model, ref *models.Reference, mode models.ConsensusMode) scoring.Constraints {
	cons := scoring.Constraints{
		Required:  models.InteractionSet{},
		Forbidden: models.InteractionSet{},
	}
	if ref == nil {
		return cons
	}
	for it := range ref.Interactions {
		if mode.Includes(it) && !ref.Forbids(it) {
			cons.Required.Add(it)
		}
	}
	for _, m := range ensemble {
		for _, it := range m.Interactions(mode) {
			if ref.Forbids(it) && !cons.Required.Contains(it) {
				cons.Forbidden.Add(it)
			}
		}
	}
	return cons
}
