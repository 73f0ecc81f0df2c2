package scoring

import (
	"errors"
	"fmt"

	"github.com/rnapolis/rnative/internal/models"
)

// ErrRequiredForbiddenOverlap signals an inconsistent constraint set.
var ErrRequiredForbiddenOverlap = errors.New("required and forbidden interactions overlap")

// Constraints are interactions that must be present or must be absent. They
// take precedence over plain reference membership.
type Constraints struct {
	Required  models.InteractionSet
	Forbidden models.InteractionSet
}

// Validate fails when an interaction is both required and forbidden.
func (c Constraints) Validate() error {
	for it := range c.Required {
		if c.Forbidden.Contains(it) {
			return fmt.Errorf("%w: %s", ErrRequiredForbiddenOverlap, it)
		}
	}
	return nil
}

// F1Confusion classifies every interaction from the reference, the model and
// the constraints exactly once:
//
//	forbidden  & predicted -> fp
//	required   & predicted -> tp, missing -> fn
//	reference  & predicted -> tp, missing -> fn
//	novel      & predicted -> fp
func F1Confusion(reference, model models.InteractionSet, cons Constraints) (Confusion, error) {
	if err := cons.Validate(); err != nil {
		return Confusion{}, err
	}

	var c Confusion
	for it := range universe(reference, model, cons) {
		predicted := model.Contains(it)
		switch {
		case cons.Forbidden.Contains(it):
			if predicted {
				c.FP++
			}
		case cons.Required.Contains(it), reference.Contains(it):
			if predicted {
				c.TP++
			} else {
				c.FN++
			}
		case predicted:
			c.FP++
		}
	}
	return c, nil
}

// F1 scores model against reference under the given constraints. It returns 0,
// not NaN, for an empty comparison.
func F1(reference, model models.InteractionSet, cons Constraints) (float64, error) {
	c, err := F1Confusion(reference, model, cons)
	if err != nil {
		return 0, err
	}
	return c.F1(), nil
}

// FuzzyF1Confusion is [F1Confusion] with weighted membership. reference maps
// an interaction to its probability; model maps an interaction to its
// membership degree (1 for a plain prediction). The predicted degree of an
// interaction is its model membership times its reference probability, or
// times 1 when the reference does not list it.
func FuzzyF1Confusion(reference, model map[models.Interaction]float64, cons Constraints) (Confusion, error) {
	if err := cons.Validate(); err != nil {
		return Confusion{}, err
	}

	keys := models.InteractionSet{}
	for it := range reference {
		keys.Add(it)
	}
	for it := range model {
		keys.Add(it)
	}
	for it := range cons.Required {
		keys.Add(it)
	}
	for it := range cons.Forbidden {
		keys.Add(it)
	}

	var c Confusion
	for it := range keys {
		probability, inReference := lookup(reference, it)
		membership, _ := lookup(model, it)

		weight := 1.0
		if inReference {
			weight = probability
		}
		predicted := membership * weight

		switch {
		case cons.Forbidden.Contains(it):
			c.FP += predicted
		case cons.Required.Contains(it):
			c.TP += predicted
			c.FN += 1 - predicted
		case inReference:
			c.TP += predicted
			c.FN += probability - predicted
		default:
			c.FP += predicted
		}
	}
	return c, nil
}

// FuzzyF1 scores weighted membership, 0 for an empty comparison.
func FuzzyF1(reference, model map[models.Interaction]float64, cons Constraints) (float64, error) {
	c, err := FuzzyF1Confusion(reference, model, cons)
	if err != nil {
		return 0, err
	}
	return c.F1(), nil
}

// Membership converts a plain set to degrees of 1.
func Membership(s models.InteractionSet) map[models.Interaction]float64 {
	out := make(map[models.Interaction]float64, len(s))
	for it := range s {
		out[it] = 1
	}
	return out
}

func lookup(m map[models.Interaction]float64, it models.Interaction) (float64, bool) {
	v, ok := m[it.Normalized()]
	return v, ok
}

func universe(reference, model models.InteractionSet, cons Constraints) models.InteractionSet {
	out := models.InteractionSet{}
	for _, s := range []models.InteractionSet{reference, model, cons.Required, cons.Forbidden} {
		for it := range s {
			out.Add(it)
		}
	}
	return out
}
