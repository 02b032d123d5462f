package report

import (
	"context"

	"quorum/internal/duckdb"
	"quorum/internal/runner"
)

// BuildReportHTML renders an HTML report for runs.
func BuildReportHTML(runs []runner.Results) string {
	html, err := RenderReportHTML(context.Background(), runs)
	if err != nil {
		return ""
	}
	return html
}

// BuildHistoryHTML renders the run history page for warehouse records.
func BuildHistoryHTML(records []duckdb.RunRecord) string {
	html, err := RenderHistoryHTML(context.Background(), records)
	if err != nil {
		return ""
	}
	return html
}
