package reporting

import (
	"encoding/json"
	"io"
	"math"

	"github.com/rnapolis/rnative/internal/metrics"
)

type jsonInteraction struct {
	Residue1       string  `json:"residue1"`
	Residue2       string  `json:"residue2"`
	Category       string  `json:"category"`
	Classification string  `json:"classification,omitempty"`
	Canonical      bool    `json:"canonical"`
	Count          int     `json:"count"`
	Confidence     float64 `json:"confidence"`
	InReference    bool    `json:"in_reference"`
	Forbidden      bool    `json:"forbidden"`
}

// jsonRank uses pointers so undefined scores encode as null.
type jsonRank struct {
	Rank    int      `json:"rank"`
	Model   string   `json:"model"`
	INF     *float64 `json:"inf"`
	F1      *float64 `json:"f1"`
	FuzzyF1 *float64 `json:"fuzzy_f1"`
}

type jsonReport struct {
	RunID        string            `json:"run_id"`
	Mode         string            `json:"mode"`
	Confidence   float64           `json:"confidence"`
	Threshold    int               `json:"threshold"`
	TotalModels  int               `json:"total_models"`
	Rankable     bool              `json:"rankable"`
	Interactions []jsonInteraction `json:"interactions"`
	Ranking      []jsonRank        `json:"ranking"`
	Summary      *metrics.Summary  `json:"summary,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	out := jsonReport{
		RunID:        r.RunID,
		Mode:         r.Mode,
		Confidence:   r.Confidence,
		Threshold:    r.Threshold,
		TotalModels:  r.TotalModels,
		Rankable:     r.Rankable,
		Interactions: make([]jsonInteraction, 0, len(r.Interactions)),
		Ranking:      make([]jsonRank, 0, len(r.Ranking)),
		Warnings:     r.Warnings,
	}
	for _, row := range r.Interactions {
		out.Interactions = append(out.Interactions, jsonInteraction{
			Residue1:       row.Residue1,
			Residue2:       row.Residue2,
			Category:       string(row.Category),
			Classification: string(row.Classification),
			Canonical:      row.Canonical,
			Count:          row.Count,
			Confidence:     row.Confidence,
			InReference:    row.InReference,
			Forbidden:      row.Forbidden,
		})
	}
	for _, row := range r.Ranking {
		out.Ranking = append(out.Ranking, jsonRank{
			Rank:    row.Rank,
			Model:   row.Model,
			INF:     finite(row.INF),
			F1:      finite(row.F1),
			FuzzyF1: finite(row.FuzzyF1),
		})
	}
	if r.Rankable {
		s := r.Summary
		out.Summary = &s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
