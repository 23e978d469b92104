package app

import (
	"RekhtaDownloader/internal/models"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSummary renders the per-link results and the totals as a table.
func PrintSummary(w io.Writer, summary models.RunSummary, results []models.SubmissionResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Run " + summary.RunID)
	t.AppendHeader(table.Row{"#", "Link", "Attempts", "Outcome", "Last Error"})

	for i, r := range results {
		lastErr := ""
		if r.Outcome == models.OutcomeFailed {
			lastErr = r.LastError
		}
		t.AppendRow(table.Row{i + 1, r.URL, r.Attempts, r.Outcome, lastErr})
	}

	t.AppendFooter(table.Row{"", "Total", summary.Total, "", ""})
	t.AppendFooter(table.Row{"", "Succeeded", summary.Succeeded, "", ""})
	t.AppendFooter(table.Row{"", "Failed", summary.Failed, "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
