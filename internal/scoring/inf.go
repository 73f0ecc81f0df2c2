// Package scoring compares interaction sets: Interaction Network Fidelity,
// F1 with required/forbidden constraints, and a fuzzy F1 over weighted
// reference membership.
package scoring

import (
	"math"

	"github.com/rnapolis/rnative/internal/models"
)

// Confusion holds true-positive, false-positive and false-negative totals.
// Values are fractional for fuzzy scoring.
type Confusion struct {
	TP float64 `json:"tp"`
	FP float64 `json:"fp"`
	FN float64 `json:"fn"`
}

// PPV is tp/(tp+fp), NaN when nothing was predicted.
func (c Confusion) PPV() float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// STY (sensitivity) is tp/(tp+fn), NaN when the reference is empty.
func (c Confusion) STY() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// INF is sqrt(PPV*STY). NaN propagates.
func (c Confusion) INF() float64 {
	return math.Sqrt(c.PPV() * c.STY())
}

// F1 is 2tp/(2tp+fp+fn), 0 when the denominator is 0.
func (c Confusion) F1() float64 {
	den := 2*c.TP + c.FP + c.FN
	if den == 0 {
		return 0
	}
	return 2 * c.TP / den
}

// Compare counts exact matches between a reference set and a model set.
func Compare(reference, model models.InteractionSet) Confusion {
	var c Confusion
	for it := range model {
		if reference.Contains(it) {
			c.TP++
		} else {
			c.FP++
		}
	}
	for it := range reference {
		if !model.Contains(it) {
			c.FN++
		}
	}
	return c
}

// INF is the Interaction Network Fidelity of model against reference.
// Swapping the arguments exchanges fp with fn and PPV with STY.
func INF(reference, model models.InteractionSet) float64 {
	return Compare(reference, model).INF()
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
