// Package consensus derives the accepted interaction set of an ensemble from
// its aggregated multisets.
package consensus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/rnapolis/rnative/internal/aggregate"
	"github.com/rnapolis/rnative/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultConfidence is the default fraction of models that must contain an
// interaction for it to be accepted.
const DefaultConfidence = 0.5

// ErrInvalidConfidence is returned when the confidence level is outside (0, 1].
var ErrInvalidConfidence = errors.New("confidence level must be in (0, 1]")

// thresholdEpsilon absorbs float error so that 0.3*10 gives 3, not 4.
const thresholdEpsilon = 1e-9

// Config controls consensus resolution.
type Config struct {
	Mode       models.ConsensusMode
	Confidence float64
}

// DefaultConfig returns the canonical mode at 0.5 confidence.
func DefaultConfig() Config {
	return Config{Mode: models.ModeCanonical, Confidence: DefaultConfidence}
}

// Validate rejects a configuration before any computation starts.
func (c Config) Validate() error {
	if math.IsNaN(c.Confidence) || c.Confidence <= 0 || c.Confidence > 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidConfidence, c.Confidence)
	}
	if _, err := models.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	return nil
}

// Threshold is ceil(confidence * totalModels). It is 0 for an empty ensemble,
// so callers must guard against empty ensembles upstream.
func Threshold(confidence float64, totalModels int) int {
	t := math.Ceil(confidence*float64(totalModels) - thresholdEpsilon)
	if t < 0 {
		return 0
	}
	return int(t)
}

// Set is the consensus interaction set for one mode. It is immutable after
// [Resolve] returns.
type Set struct {
	Mode        models.ConsensusMode
	Threshold   int
	TotalModels int

	// Interactions are sorted in natural interaction order.
	Interactions []models.ConsensusInteraction
	// Removed holds candidates dropped by conflict resolution, in removal order.
	Removed []models.ConsensusInteraction

	index models.InteractionSet
}

// Contains reports whether i is part of the consensus.
func (s *Set) Contains(i models.Interaction) bool {
	return s.index.Contains(i)
}

// Len is the number of accepted interactions.
func (s *Set) Len() int {
	return len(s.Interactions)
}

// InteractionSet returns the accepted interactions as a plain set.
func (s *Set) InteractionSet() models.InteractionSet {
	out := make(models.InteractionSet, len(s.index))
	for it := range s.index {
		out[it] = struct{}{}
	}
	return out
}

// Resolve applies the threshold, accepts reference interactions
// unconditionally (with a model count of 0 when no model contains them), and, except in stacking mode, removes conflicting base
// pairs until every residue has at most one partner per classification.
// A nil reference contributes nothing.
func Resolve(ms *aggregate.Multisets, ref *models.Reference, cfg Config) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	threshold := Threshold(cfg.Confidence, ms.TotalModels)
	candidates := selectCandidates(ms.ForMode(cfg.Mode), cfg.Mode, ms.TotalModels, threshold, ref)

	slog.Debug("Selected consensus candidates",
		"mode", cfg.Mode,
		"threshold", threshold,
		"candidates", len(candidates))

	var removed []models.ConsensusInteraction
	if cfg.Mode != models.ModeStacking {
		candidates, removed = resolveConflicts(candidates)
	}

	slices.SortFunc(candidates, func(a, b models.ConsensusInteraction) int {
		return a.Interaction.Compare(b.Interaction)
	})

	set := &Set{
		Mode:         cfg.Mode,
		Threshold:    threshold,
		TotalModels:  ms.TotalModels,
		Interactions: candidates,
		Removed:      removed,
		index:        models.InteractionSet{},
	}
	for _, c := range candidates {
		set.index.Add(c.Interaction)
	}
	return set, nil
}

// ResolveModes resolves several modes concurrently over the same multisets.
// Each mode works on its own candidate list.
func ResolveModes(ctx context.Context, ms *aggregate.Multisets, ref *models.Reference, confidence float64, modes ...models.ConsensusMode) (map[models.ConsensusMode]*Set, error) {
	var mu sync.Mutex
	out := make(map[models.ConsensusMode]*Set, len(modes))

	eg, ctx := errgroup.WithContext(ctx)
	for _, mode := range modes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := Resolve(ms, ref, Config{Mode: mode, Confidence: confidence})
			if err != nil {
				return fmt.Errorf("resolving %s consensus: %w", mode, err)
			}
			mu.Lock()
			out[mode] = set
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// selectCandidates keeps every interaction at or above threshold plus every
// reference interaction of the mode, including those no model contains.
func selectCandidates(bag *aggregate.Bag, mode models.ConsensusMode, total, threshold int, ref *models.Reference) []models.ConsensusInteraction {
	var out []models.ConsensusInteraction
	for _, e := range bag.Entries() {
		if ref.Contains(e.Interaction) || e.Count >= threshold {
			out = append(out, models.NewConsensusInteraction(e.Interaction, e.Count, total, ref))
		}
	}
	if ref == nil {
		return out
	}
	for _, it := range ref.Interactions.Sorted() {
		if mode.Includes(it) && bag.Count(it) == 0 {
			out = append(out, models.NewConsensusInteraction(it, 0, total, ref))
		}
	}
	return out
}
