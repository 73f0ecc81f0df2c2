// Package statistics estimates the uncertainty of ensemble score
// distributions.
package statistics

import (
	"math"
	"math/rand/v2"
	"slices"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

const (
	// DefaultIterations is the number of bootstrap resamples.
	DefaultIterations = 2000
	// DefaultSeed makes repeated reports of one ensemble identical.
	DefaultSeed uint64 = 1
)

// BootstrapMean computes a percentile bootstrap confidence interval for the
// mean of scores. NaN scores are ignored. level should be in (0, 1), e.g.
// 0.95. The same seed always gives the same interval. With fewer than 2
// defined scores the interval collapses onto the mean and no resampling is
// done.
func BootstrapMean(scores []float64, level float64, iterations int, seed uint64) ConfidenceInterval {
	defined := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsNaN(s) {
			defined = append(defined, s)
		}
	}

	n := len(defined)
	m := mean(defined)
	ci := ConfidenceInterval{Lower: m, Upper: m, Mean: m, ConfidenceLevel: level}
	if n < 2 || iterations < 1 {
		return ci
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	means := make([]float64, iterations)
	sample := make([]float64, n)
	for i := range iterations {
		for j := range sample {
			sample[j] = defined[rng.IntN(n)]
		}
		means[i] = mean(sample)
	}
	slices.Sort(means)

	alpha := 1.0 - level
	lo := int(math.Floor(alpha / 2.0 * float64(iterations)))
	hi := min(int(math.Floor((1.0-alpha/2.0)*float64(iterations))), iterations-1)

	ci.Lower = means[lo]
	ci.Upper = means[hi]
	ci.NumBootstraps = iterations
	return ci
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
