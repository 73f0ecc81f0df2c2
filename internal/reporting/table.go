package reporting

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPrinter formats scores for human-readable output.
var numberPrinter = message.NewPrinter(language.English)

const (
	minNameWidth = 8
	maxNameWidth = 40
	// colScores is the width taken by rank and the three score columns.
	colScores = 6 + 3*10
)

// WriteTable renders the report as aligned plain-text tables. width bounds
// the model and residue columns so the ranking fits the terminal.
func WriteTable(w io.Writer, r *Report, width int) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString(" CONSENSUS REPORT\n")
	b.WriteString(strings.Repeat("=", 70) + "\n\n")
	b.WriteString(FormatSummary(r))
	b.WriteString("\n")

	writeInteractionTable(&b, r)
	b.WriteString("\n")
	writeRankingTable(&b, r, width)

	if len(r.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, msg := range r.Warnings {
			fmt.Fprintf(&b, "  ⚠ %s\n", msg)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeInteractionTable(b *strings.Builder, r *Report) {
	b.WriteString(strings.Repeat("-", 70) + "\n")
	fmt.Fprintf(b, " CONSENSUS INTERACTIONS (%d)\n", len(r.Interactions))
	b.WriteString(strings.Repeat("-", 70) + "\n")
	if len(r.Interactions) == 0 {
		b.WriteString("  (none)\n")
		return
	}

	resWidth := len("Residue 1")
	for _, row := range r.Interactions {
		resWidth = max(resWidth, runewidth.StringWidth(row.Residue1), runewidth.StringWidth(row.Residue2))
	}

	fmt.Fprintf(b, "  %s  %s  %-10s  %-7s  %-9s  %-10s  %s\n",
		padRight("Residue 1", resWidth), padRight("Residue 2", resWidth),
		"Category", "Class", "Count", "Confidence", "Reference")
	for _, row := range r.Interactions {
		ref := ""
		switch {
		case row.InReference:
			ref = "✓"
		case row.Forbidden:
			ref = "✗ forbidden"
		}
		class := string(row.Classification)
		if class == "" {
			class = "-"
		}
		fmt.Fprintf(b, "  %s  %s  %-10s  %-7s  %-9s  %-10s  %s\n",
			padRight(row.Residue1, resWidth), padRight(row.Residue2, resWidth),
			row.Category, class,
			fmt.Sprintf("%d/%d", row.Count, r.TotalModels),
			formatScore(row.Confidence), ref)
	}
}

func writeRankingTable(b *strings.Builder, r *Report, width int) {
	b.WriteString(strings.Repeat("-", 70) + "\n")
	b.WriteString(" MODEL RANKING\n")
	b.WriteString(strings.Repeat("-", 70) + "\n")
	if !r.Rankable {
		b.WriteString("  (not enough models to rank)\n")
		return
	}

	nameWidth := len("Model")
	for _, row := range r.Ranking {
		nameWidth = max(nameWidth, runewidth.StringWidth(row.Model))
	}
	nameWidth = min(nameWidth, maxNameWidth)
	if width > 0 {
		nameWidth = min(nameWidth, max(width-colScores, minNameWidth))
	}

	fmt.Fprintf(b, "  %-4s  %s  %-8s  %-8s  %-8s\n", "Rank", padRight("Model", nameWidth), "INF", "F1", "Fuzzy F1")
	for _, row := range r.Ranking {
		fmt.Fprintf(b, "  %-4d  %s  %-8s  %-8s  %-8s\n",
			row.Rank,
			padRight(runewidth.Truncate(row.Model, nameWidth, "…"), nameWidth),
			formatScore(row.INF), formatScore(row.F1), formatScore(row.FuzzyF1))
	}
}

// formatScore prints NaN as n/a.
func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return numberPrinter.Sprintf("%.4f", v)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
