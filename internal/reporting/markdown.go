package reporting

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the report as a GitHub-flavored Markdown document.
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Consensus report `%s`\n\n", r.RunID)
	fmt.Fprintf(&b, "- **Mode:** %s\n", r.Mode)
	fmt.Fprintf(&b, "- **Confidence:** %s (threshold %d of %d models)\n", formatScore(r.Confidence), r.Threshold, r.TotalModels)
	fmt.Fprintf(&b, "- **Consensus interactions:** %d\n\n", len(r.Interactions))

	b.WriteString("## Consensus interactions\n\n")
	if len(r.Interactions) == 0 {
		b.WriteString("_No interaction reached the threshold._\n\n")
	} else {
		b.WriteString("| Residue 1 | Residue 2 | Category | Class | Count | Confidence | Reference |\n")
		b.WriteString("|---|---|---|---|---:|---:|---|\n")
		for _, row := range r.Interactions {
			ref := ""
			switch {
			case row.InReference:
				ref = "yes"
			case row.Forbidden:
				ref = "forbidden"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d/%d | %s | %s |\n",
				mdCell(row.Residue1), mdCell(row.Residue2), row.Category, row.Classification,
				row.Count, r.TotalModels, formatScore(row.Confidence), ref)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Model ranking\n\n")
	if !r.Rankable {
		b.WriteString("_Not enough models to rank._\n")
	} else {
		b.WriteString("| Rank | Model | INF | F1 | Fuzzy F1 |\n")
		b.WriteString("|---:|---|---:|---:|---:|\n")
		for _, row := range r.Ranking {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				row.Rank, mdCell(row.Model), formatScore(row.INF), formatScore(row.F1), formatScore(row.FuzzyF1))
		}

		s := r.Summary
		if s.Count > 0 {
			fmt.Fprintf(&b, "\nMean INF %s (sd %s) over %d model(s)", formatScore(s.Mean), formatScore(s.StdDev), s.Count)
			if s.Bootstrap.NumBootstraps > 0 {
				fmt.Fprintf(&b, ", %.0f%% bootstrap CI %s to %s",
					s.Bootstrap.ConfidenceLevel*100, formatScore(s.Bootstrap.Lower), formatScore(s.Bootstrap.Upper))
			}
			b.WriteString(".\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, msg := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", mdCell(msg))
		}
	}

	return b.String()
}

func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML renders the Markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, r *Report) error {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(r)), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	title := html.EscapeString("Consensus report " + r.RunID)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; }
</style>
</head>
<body>
%s</body>
</html>
`, title, body.String())
	return err
}
