package models

// Reference is an externally known structure used to override frequency-based
// acceptance. A nil *Reference behaves as an empty one.
type Reference struct {
	// Interactions are explicitly listed in the reference and always accepted.
	Interactions InteractionSet
	// Unpaired residues are marked as unpaired; any interaction touching one is
	// structurally impossible under this reference.
	Unpaired ResidueSet
}

// Contains reports whether i is listed in the reference.
func (r *Reference) Contains(i Interaction) bool {
	if r == nil {
		return false
	}
	return r.Interactions.Contains(i)
}

// Forbids reports whether either partner of i is marked unpaired.
func (r *Reference) Forbids(i Interaction) bool {
	if r == nil {
		return false
	}
	return r.Unpaired.Contains(i.Partner1) || r.Unpaired.Contains(i.Partner2)
}

// ConsensusInteraction is an interaction with its ensemble support.
type ConsensusInteraction struct {
	Interaction
	ModelCount           int     `json:"model_count"`
	Probability          float64 `json:"probability"`
	PresentInReference   bool    `json:"present_in_reference"`
	ForbiddenInReference bool    `json:"forbidden_in_reference"`
}

// NewConsensusInteraction derives probability and reference flags. A zero
// totalModels yields probability 0.
func NewConsensusInteraction(i Interaction, count, totalModels int, ref *Reference) ConsensusInteraction {
	p := 0.0
	if totalModels > 0 {
		p = float64(count) / float64(totalModels)
	}
	return ConsensusInteraction{
		Interaction:          i,
		ModelCount:           count,
		Probability:          p,
		PresentInReference:   ref.Contains(i),
		ForbiddenInReference: ref.Forbids(i),
	}
}

// RankedModel is a model with its score against a consensus. INF may be NaN.
// Rank is assigned only after every model of the ensemble is scored.
type RankedModel struct {
	Model   *Model
	INF     float64
	F1      float64
	FuzzyF1 float64
	Rank    int
}
