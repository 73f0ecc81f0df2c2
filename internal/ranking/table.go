package ranking

import (
	"github.com/rnapolis/rnative/internal/consensus"
	"github.com/rnapolis/rnative/internal/models"
)

// Row is one line of the model ranking report.
type Row struct {
	Rank    int
	Model   string
	INF     float64
	F1      float64
	FuzzyF1 float64
}

// Rows flattens ranked models for reporting.
func Rows(ranked []models.RankedModel) []Row {
	out := make([]Row, len(ranked))
	for i, rm := range ranked {
		out[i] = Row{
			Rank:    rm.Rank,
			Model:   rm.Model.Name,
			INF:     rm.INF,
			F1:      rm.F1,
			FuzzyF1: rm.FuzzyF1,
		}
	}
	return out
}

// InteractionRow is one line of the consensus interaction report.
type InteractionRow struct {
	Residue1       string
	Residue2       string
	Category       models.Category
	Classification models.LW
	Canonical      bool
	Count          int
	Confidence     float64
	InReference    bool
	Forbidden      bool
}

// InteractionRows lists the consensus interactions with their confidence,
// count / total models.
func InteractionRows(set *consensus.Set) []InteractionRow {
	out := make([]InteractionRow, 0, set.Len())
	for _, ci := range set.Interactions {
		out = append(out, InteractionRow{
			Residue1:       ci.Partner1.String(),
			Residue2:       ci.Partner2.String(),
			Category:       ci.Category,
			Classification: ci.Classification,
			Canonical:      ci.IsCanonical(),
			Count:          ci.ModelCount,
			Confidence:     ci.Probability,
			InReference:    ci.PresentInReference,
			Forbidden:      ci.ForbiddenInReference,
		})
	}
	return out
}
