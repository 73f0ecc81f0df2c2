package consensus

import (
	"context"
	"fmt"
	"testing"

	"github.com/rnapolis/rnative/internal/aggregate"
	"github.com/rnapolis/rnative/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nt names odd positions G and even positions C, so a cWW pair between an odd
// and an even position is canonical.
func nt(num int) models.ResidueIdentifier {
	name := "C"
	if num%2 != 0 {
		name = "G"
	}
	return models.ResidueIdentifier{Chain: "A", Number: num, Name: name}
}

func bp(a, b int, lw models.LW) models.Interaction {
	return models.NewBasePair(nt(a), nt(b), lw)
}

func bagOf(counts map[models.Interaction]int) *aggregate.Bag {
	b := aggregate.NewBag()
	for it, n := range counts {
		for range n {
			b.Add(it)
		}
	}
	return b
}

// multisets puts every base pair into the canonical or non-canonical bag by
// its own canonicality and everything into All.
func multisets(total int, counts map[models.Interaction]int) *aggregate.Multisets {
	canonical := map[models.Interaction]int{}
	nonCanonical := map[models.Interaction]int{}
	stacking := map[models.Interaction]int{}
	for it, n := range counts {
		switch {
		case !it.IsBasePair():
			stacking[it] = n
		case it.IsCanonical():
			canonical[it] = n
		default:
			nonCanonical[it] = n
		}
	}
	return &aggregate.Multisets{
		Canonical:    bagOf(canonical),
		NonCanonical: bagOf(nonCanonical),
		Stacking:     bagOf(stacking),
		All:          bagOf(counts),
		TotalModels:  total,
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		confidence float64
		total      int
		expected   int
	}{
		{0.5, 4, 2},
		{0.5, 5, 3},
		// 0.3*10 is 3.0000000000000004 in float64; the epsilon keeps it at 3
		{0.3, 10, 3},
		{1.0, 7, 7},
		{0.01, 7, 1},
		{0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v of %d", tt.confidence, tt.total), func(t *testing.T) {
			require.Equal(t, tt.expected, Threshold(tt.confidence, tt.total))
		})
	}
}

func TestThreshold_MonotonicInConfidence(t *testing.T) {
	for total := 0; total <= 25; total++ {
		prev := 0
		for step := 1; step <= 100; step++ {
			th := Threshold(float64(step)/100, total)
			require.GreaterOrEqual(t, th, prev, "total=%d confidence=%v", total, float64(step)/100)
			prev = th
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{Mode: models.ModeAll, Confidence: 1}.Validate())

	for _, c := range []float64{0, -0.1, 1.01} {
		err := Config{Mode: models.ModeCanonical, Confidence: c}.Validate()
		require.ErrorIs(t, err, ErrInvalidConfidence)
	}

	require.Error(t, Config{Mode: "pairs", Confidence: 0.5}.Validate())
}

func TestResolve_InvalidConfidenceRejected(t *testing.T) {
	_, err := Resolve(multisets(4, nil), nil, Config{Mode: models.ModeCanonical, Confidence: 1.5})
	require.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestResolve_ThresholdAndReference(t *testing.T) {
	x := bp(1, 20, models.CWW)
	y := bp(2, 19, models.CWW)
	z := bp(3, 18, models.CWW)
	ms := multisets(4, map[models.Interaction]int{x: 3, y: 1})

	set, err := Resolve(ms, nil, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 2, set.Threshold)
	require.True(t, set.Contains(x))
	require.False(t, set.Contains(y))
	require.False(t, set.Contains(z))

	// reference membership accepts regardless of count
	ref := &models.Reference{Interactions: models.NewInteractionSet(y, z)}
	set, err = Resolve(ms, ref, DefaultConfig())
	require.NoError(t, err)
	require.True(t, set.Contains(x))
	require.True(t, set.Contains(y))
	// z is in no model and still accepted through the reference
	require.True(t, set.Contains(z))
	require.Equal(t, 3, set.Len())

	for _, ci := range set.Interactions {
		switch ci.Interaction {
		case y:
			require.True(t, ci.PresentInReference)
			require.Equal(t, 1, ci.ModelCount)
			require.InDelta(t, 0.25, ci.Probability, 1e-12)
		case z:
			require.True(t, ci.PresentInReference)
			require.Zero(t, ci.ModelCount)
			require.Zero(t, ci.Probability)
		}
	}
}

func TestResolve_ReferenceOnlyInteraction(t *testing.T) {
	x := bp(1, 20, models.CWW)
	z := bp(3, 18, models.CWW)
	stackOnly := models.NewStacking(nt(3), nt(4))
	ms := multisets(4, map[models.Interaction]int{x: 3})
	ref := &models.Reference{Interactions: models.NewInteractionSet(z, stackOnly)}

	set, err := Resolve(ms, ref, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 2, set.Threshold)
	require.True(t, set.Contains(x))
	require.True(t, set.Contains(z))
	// outside the canonical mode
	require.False(t, set.Contains(stackOnly))

	stacking, err := Resolve(ms, ref, Config{Mode: models.ModeStacking, Confidence: 0.5})
	require.NoError(t, err)
	require.True(t, stacking.Contains(stackOnly))
	require.False(t, stacking.Contains(z))
}

func TestResolve_ReferenceOnlyInteractionLosesConflict(t *testing.T) {
	strong := bp(7, 20, models.CWW)
	refOnly := bp(7, 16, models.CWW)
	ms := multisets(4, map[models.Interaction]int{strong: 4})
	ref := &models.Reference{Interactions: models.NewInteractionSet(refOnly)}

	set, err := Resolve(ms, ref, DefaultConfig())
	require.NoError(t, err)
	require.True(t, set.Contains(strong))
	require.False(t, set.Contains(refOnly))
	require.Len(t, set.Removed, 1)
	require.Zero(t, set.Removed[0].ModelCount)
}

func TestResolve_ConflictKeepsBetterSupported(t *testing.T) {
	strong := bp(7, 20, models.CWW)
	weak := bp(7, 16, models.CWW)
	ms := multisets(6, map[models.Interaction]int{strong: 5, weak: 2})

	set, err := Resolve(ms, nil, Config{Mode: models.ModeCanonical, Confidence: 0.3})
	require.NoError(t, err)
	require.True(t, set.Contains(strong))
	require.False(t, set.Contains(weak))
	require.Len(t, set.Removed, 1)
	require.Equal(t, weak, set.Removed[0].Interaction)
}

func TestResolve_ConflictRunsToFixedPoint(t *testing.T) {
	// 1-2 (1), 2-3 (2), 3-4 (5): removing 1-2 leaves 2-3 conflicting with 3-4
	p12 := bp(1, 2, models.TWH)
	p23 := bp(2, 3, models.TWH)
	p34 := bp(3, 4, models.TWH)
	ms := multisets(5, map[models.Interaction]int{p12: 1, p23: 2, p34: 5})

	set, err := Resolve(ms, nil, Config{Mode: models.ModeNonCanonical, Confidence: 0.2})
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	require.True(t, set.Contains(p34))
	require.Equal(t, []models.Interaction{p12, p23}, []models.Interaction{set.Removed[0].Interaction, set.Removed[1].Interaction})
}

func TestResolve_DifferentClassificationsDoNotConflict(t *testing.T) {
	a := bp(1, 10, models.CWW)
	b := bp(1, 11, models.TSH)
	ms := multisets(2, map[models.Interaction]int{a: 2, b: 2})

	set, err := Resolve(ms, nil, Config{Mode: models.ModeAll, Confidence: 0.5})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
}

func TestResolve_TieBreakIsDeterministic(t *testing.T) {
	a := bp(1, 10, models.CWW)
	b := bp(1, 12, models.CWW)
	ms := multisets(2, map[models.Interaction]int{a: 2, b: 2})

	for range 20 {
		set, err := Resolve(ms, nil, Config{Mode: models.ModeCanonical, Confidence: 0.5})
		require.NoError(t, err)
		require.Equal(t, 1, set.Len())
		// natural order puts 1-10 first, so it is removed first
		require.True(t, set.Contains(b))
	}
}

func TestResolve_StackingSkipsConflicts(t *testing.T) {
	s1 := models.NewStacking(nt(1), nt(2))
	s2 := models.NewStacking(nt(1), nt(3))
	s3 := models.NewStacking(nt(1), nt(4))
	ms := multisets(3, map[models.Interaction]int{s1: 3, s2: 2, s3: 1})

	set, err := Resolve(ms, nil, Config{Mode: models.ModeStacking, Confidence: 0.5})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	require.Empty(t, set.Removed)
}

func TestResolve_ForbiddenFlag(t *testing.T) {
	x := bp(1, 20, models.CWW)
	ms := multisets(2, map[models.Interaction]int{x: 2})
	ref := &models.Reference{Unpaired: models.NewResidueSet(nt(20))}

	set, err := Resolve(ms, ref, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, set.Interactions, 1)
	require.True(t, set.Interactions[0].ForbiddenInReference)
}

func randomishEnsemble() map[models.Interaction]int {
	counts := map[models.Interaction]int{}
	lws := []models.LW{models.CWW, models.TWW, models.CWH, models.TSH}
	for i := 1; i <= 12; i++ {
		for j := i + 1; j <= 12; j += 3 {
			counts[bp(i, j, lws[(i+j)%len(lws)])] = (i*j)%7 + 1
		}
		counts[models.NewStacking(nt(i), nt(i+1))] = i%7 + 1
	}
	return counts
}

func TestResolve_NoResidueHasTwoPartnersPerClass(t *testing.T) {
	ms := multisets(7, randomishEnsemble())

	for _, mode := range []models.ConsensusMode{models.ModeCanonical, models.ModeNonCanonical, models.ModeAll} {
		t.Run(string(mode), func(t *testing.T) {
			set, err := Resolve(ms, nil, Config{Mode: mode, Confidence: 0.2})
			require.NoError(t, err)

			seen := map[residueClass]int{}
			for _, c := range set.Interactions {
				if !c.IsBasePair() {
					continue
				}
				seen[residueClass{c.Partner1, c.Classification}]++
				seen[residueClass{c.Partner2, c.Classification}]++
			}
			for k, n := range seen {
				assert.LessOrEqual(t, n, 1, "residue %s has %d %s partners", k.residue, n, k.lw)
			}
		})
	}
}

func TestResolveModes_AllIsSupersetBeforeConflicts(t *testing.T) {
	ms := multisets(7, randomishEnsemble())
	const confidence = 0.4
	threshold := Threshold(confidence, ms.TotalModels)

	all := selectCandidates(ms.All, ms.TotalModels, threshold, nil)
	allSet := models.InteractionSet{}
	for _, c := range all {
		allSet.Add(c.Interaction)
	}

	for _, mode := range []models.ConsensusMode{models.ModeCanonical, models.ModeNonCanonical, models.ModeStacking} {
		for _, c := range selectCandidates(ms.ForMode(mode), ms.TotalModels, threshold, nil) {
			require.True(t, allSet.Contains(c.Interaction), "%s missing from all", c.Interaction)
		}
	}

	sets, err := ResolveModes(context.Background(), ms, nil, confidence, models.AllModes...)
	require.NoError(t, err)
	require.Len(t, sets, 4)
	for mode, set := range sets {
		require.Equal(t, mode, set.Mode)
		for _, c := range set.Interactions {
			require.True(t, mode.Includes(c.Interaction))
		}
	}
	// stacking is never conflict-resolved, so ALL keeps every stacking candidate
	for _, c := range sets[models.ModeStacking].Interactions {
		require.True(t, sets[models.ModeAll].Contains(c.Interaction))
	}
}

func TestResolveModes_PropagatesErrors(t *testing.T) {
	_, err := ResolveModes(context.Background(), multisets(1, nil), nil, 0, models.AllModes...)
	require.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestResolve_EmptyEnsemble(t *testing.T) {
	set, err := Resolve(multisets(0, nil), nil, DefaultConfig())
	require.NoError(t, err)
	require.Zero(t, set.Threshold)
	require.Zero(t, set.Len())
}
