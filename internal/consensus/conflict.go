package consensus

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/rnapolis/rnative/internal/models"
)

// residueClass is a residue's slot within one Leontis-Westhof classification.
type residueClass struct {
	residue models.ResidueIdentifier
	lw      models.LW
}

// resolveConflicts removes, one at a time, the least supported candidate among
// those that share a residue with another candidate of the same
// classification, and recomputes conflicts after each removal. Stacking and
// unclassified pairs never conflict. Pairs of different classifications may
// share a residue.
func resolveConflicts(candidates []models.ConsensusInteraction) (kept, removed []models.ConsensusInteraction) {
	working := slices.Clone(candidates)
	slices.SortStableFunc(working, func(a, b models.ConsensusInteraction) int {
		if c := cmp.Compare(a.ModelCount, b.ModelCount); c != 0 {
			return c
		}
		return a.Interaction.Compare(b.Interaction)
	})

	for {
		conflicting := findConflicts(working)
		if len(conflicting) == 0 {
			break
		}

		// working is ordered by ascending support, so the first conflicting
		// entry is the global minimum.
		victim := -1
		for idx := range working {
			if conflicting[idx] {
				victim = idx
				break
			}
		}

		slog.Debug("Removing conflicting candidate",
			"interaction", working[victim].Interaction.String(),
			"count", working[victim].ModelCount)

		removed = append(removed, working[victim])
		working = slices.Delete(working, victim, victim+1)
	}

	return working, removed
}

// findConflicts returns the indices of candidates involved in at least one
// conflict.
func findConflicts(working []models.ConsensusInteraction) map[int]bool {
	slots := map[residueClass][]int{}
	for idx, c := range working {
		if !c.IsBasePair() || c.Classification == models.LWUnknown {
			continue
		}
		// keyed by the normalized classification, so cWH and cHW are separate slots
		for _, r := range []models.ResidueIdentifier{c.Partner1, c.Partner2} {
			key := residueClass{residue: r, lw: c.Classification}
			slots[key] = append(slots[key], idx)
		}
	}

	conflicting := map[int]bool{}
	for _, idxs := range slots {
		if len(idxs) > 1 {
			for _, idx := range idxs {
				conflicting[idx] = true
			}
		}
	}
	return conflicting
}
