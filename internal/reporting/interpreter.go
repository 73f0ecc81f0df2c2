package reporting

import (
	"fmt"
	"math"
	"strings"
)

// InterpretINF returns a plain-language label for an INF score (0 to 1).
func InterpretINF(score float64) string {
	if math.IsNaN(score) {
		return "Undefined (empty interaction set)"
	}
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Partial (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretAgreement describes how closely the ensemble agrees, from the
// spread of INF scores.
func InterpretAgreement(stdDev float64, count int) string {
	switch {
	case count < 2:
		return "Not enough scored models to judge agreement."
	case stdDev < 0.05:
		return "Models agree closely with the consensus."
	case stdDev < 0.15:
		return "Models mostly agree with the consensus."
	default:
		return "Models disagree noticeably; the consensus may be weakly supported."
	}
}

// FormatSummary produces the plain-language header of a report.
func FormatSummary(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run:          %s\n", r.RunID)
	fmt.Fprintf(&b, "Mode:         %s\n", r.Mode)
	fmt.Fprintf(&b, "Confidence:   %s (threshold %d of %d models)\n", formatScore(r.Confidence), r.Threshold, r.TotalModels)
	fmt.Fprintf(&b, "Consensus:    %d interactions\n", len(r.Interactions))

	if !r.Rankable || len(r.Ranking) == 0 {
		return b.String()
	}

	best := r.Ranking[0]
	fmt.Fprintf(&b, "Best model:   %s (INF %s, %s)\n", best.Model, formatScore(best.INF), InterpretINF(best.INF))
	s := r.Summary
	if s.Count > 0 {
		fmt.Fprintf(&b, "INF:          mean %s, sd %s, range %s to %s\n",
			formatScore(s.Mean), formatScore(s.StdDev), formatScore(s.Min), formatScore(s.Max))
	}
	if s.Bootstrap.NumBootstraps > 0 {
		fmt.Fprintf(&b, "Mean INF CI:  %s to %s (%.0f%%, %d resamples)\n",
			formatScore(s.Bootstrap.Lower), formatScore(s.Bootstrap.Upper),
			s.Bootstrap.ConfidenceLevel*100, s.Bootstrap.NumBootstraps)
	}
	if s.Undefined > 0 {
		fmt.Fprintf(&b, "Undefined:    %d model(s) with no comparable interactions\n", s.Undefined)
	}
	fmt.Fprintf(&b, "Agreement:    %s\n", InterpretAgreement(s.StdDev, s.Count))

	return b.String()
}
