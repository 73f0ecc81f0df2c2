package reporting

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/rnapolis/rnative/internal/ranking"
)

var (
	interactionHeader = []string{"residue1", "residue2", "category", "classification", "canonical", "count", "confidence", "in_reference", "forbidden"}
	rankingHeader     = []string{"rank", "model", "inf", "f1", "fuzzy_f1"}
	warningHeader     = []string{"warning"}
)

// WriteInteractionsCSV writes the consensus interaction table.
func WriteInteractionsCSV(w io.Writer, rows []ranking.InteractionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(interactionHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			row.Residue1,
			row.Residue2,
			string(row.Category),
			string(row.Classification),
			strconv.FormatBool(row.Canonical),
			strconv.Itoa(row.Count),
			csvFloat(row.Confidence),
			strconv.FormatBool(row.InReference),
			strconv.FormatBool(row.Forbidden),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRankingCSV writes the model ranking table. Undefined scores are left
// empty.
func WriteRankingCSV(w io.Writer, rows []ranking.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rankingHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{
			strconv.Itoa(row.Rank),
			row.Model,
			csvFloat(row.INF),
			csvFloat(row.F1),
			csvFloat(row.FuzzyF1),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWarningsCSV writes data-quality warnings, one per row.
func WriteWarningsCSV(w io.Writer, warnings []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(warningHeader); err != nil {
		return err
	}
	for _, msg := range warnings {
		if err := cw.Write([]string{msg}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
