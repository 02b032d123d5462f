package report

import (
	"context"
	"strings"

	"quorum/internal/duckdb"
	"quorum/internal/runner"
)

// RenderReportHTML renders the report page into a string.
func RenderReportHTML(ctx context.Context, runs []runner.Results) (string, error) {
	var builder strings.Builder
	if err := ReportPage(runs).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// RenderHistoryHTML renders the run history page into a string.
func RenderHistoryHTML(ctx context.Context, records []duckdb.RunRecord) (string, error) {
	var builder strings.Builder
	if err := HistoryPage(records).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
