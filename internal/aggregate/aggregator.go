// Package aggregate merges per-model interaction lists into multisets and
// checks that every model of an ensemble shares one residue frame.
package aggregate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rnapolis/rnative/internal/models"
)

// Multisets holds the per-category bags built over one ensemble. It is not
// modified after [Aggregate] returns.
type Multisets struct {
	Canonical    *Bag
	NonCanonical *Bag
	Stacking     *Bag
	All          *Bag

	TotalModels int
}

// ForMode returns the bag that feeds the given consensus mode.
func (m *Multisets) ForMode(mode models.ConsensusMode) *Bag {
	switch mode {
	case models.ModeCanonical:
		return m.Canonical
	case models.ModeNonCanonical:
		return m.NonCanonical
	case models.ModeStacking:
		return m.Stacking
	default:
		return m.All
	}
}

// CompositionMismatch describes a model whose residue set differs from the
// first model of the ensemble.
type CompositionMismatch struct {
	Model   string
	Missing []models.ResidueIdentifier
	Extra   []models.ResidueIdentifier
}

func (c CompositionMismatch) String() string {
	return fmt.Sprintf("model %q residue composition differs from the first model (missing: %s; extra: %s)",
		c.Model, joinResidues(c.Missing), joinResidues(c.Extra))
}

// Result is the aggregation output.
type Result struct {
	Multisets
	// Frame is the first model's residue order, used as ground truth.
	Frame      []models.ResidueIdentifier
	Mismatches []CompositionMismatch
}

// Aggregate counts, for each interaction, how many models contain it. No
// filtering happens here. Composition mismatches are logged and collected,
// never fatal. An empty input yields empty bags and TotalModels == 0.
func Aggregate(ensemble []*models.Model) *Result {
	res := &Result{
		Multisets: Multisets{
			Canonical:    NewBag(),
			NonCanonical: NewBag(),
			Stacking:     NewBag(),
			All:          NewBag(),
			TotalModels:  len(ensemble),
		},
	}
	if len(ensemble) == 0 {
		return res
	}

	first := ensemble[0]
	res.Frame = first.Residues
	firstSet := first.ResidueSet()

	for idx, m := range ensemble {
		if idx > 0 {
			if mm, ok := checkComposition(firstSet, m); !ok {
				slog.Warn("Residue composition mismatch",
					"model", mm.Model,
					"missing", len(mm.Missing),
					"extra", len(mm.Extra))
				res.Mismatches = append(res.Mismatches, mm)
			}
		}

		addAll(res.Canonical, res.All, m.CanonicalPairs)
		addAll(res.NonCanonical, res.All, m.NonCanonicalPairs)
		addAll(res.Stacking, res.All, m.Stackings)
	}

	slog.Debug("Aggregated ensemble",
		"models", res.TotalModels,
		"canonical", res.Canonical.Len(),
		"non_canonical", res.NonCanonical.Len(),
		"stacking", res.Stacking.Len())

	return res
}

// addAll counts each interaction at most once per model.
func addAll(bag, all *Bag, items []models.Interaction) {
	seen := models.InteractionSet{}
	for _, it := range items {
		if seen.Contains(it) {
			continue
		}
		seen.Add(it)
		bag.Add(it)
		all.Add(it)
	}
}

func checkComposition(expected models.ResidueSet, m *models.Model) (CompositionMismatch, bool) {
	got := m.ResidueSet()
	mm := CompositionMismatch{
		Model:   m.Name,
		Missing: expected.Difference(got),
		Extra:   got.Difference(expected),
	}
	return mm, len(mm.Missing) == 0 && len(mm.Extra) == 0
}

func joinResidues(rs []models.ResidueIdentifier) string {
	if len(rs) == 0 {
		return "none"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
