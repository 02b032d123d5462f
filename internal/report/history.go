package report

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"quorum/internal/duckdb"
)

// HistoryPage renders the warehouse run history, newest first.
func HistoryPage(records []duckdb.RunRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Quorum Run History</title>\n<style>")
		hw.raw(pageStyle)
		hw.raw("</style>\n</head>\n<body>\n<h1>Quorum Run History</h1>\n")
		if len(records) == 0 {
			hw.raw("<p>No runs ingested yet.</p>\n")
		} else {
			writeHistoryTable(hw, records)
		}
		hw.raw("</body>\n</html>\n")
		return hw.err
	})
}

func writeHistoryTable(hw *htmlWriter, records []duckdb.RunRecord) {
	hw.raw("<table>\n<tr><th>Run</th><th>Repo</th><th>Commit</th><th>Branch</th><th>Files</th><th>Requirements</th><th>Pass rate</th><th>Started</th></tr>\n")
	for _, record := range records {
		hw.raw("<tr><td>")
		hw.text(record.RunID)
		hw.raw("</td><td>")
		hw.text(record.Repo)
		hw.raw("</td><td><code>")
		hw.text(shortCommit(record.Commit))
		hw.raw("</code></td><td>")
		hw.text(record.Branch)
		hw.rawf("</td><td>%d/%d</td><td>%d/%d</td><td class=\"%s\">%s%%</td><td>",
			record.FilesPassed, record.FilesTotal,
			record.RequirementsPassed, record.RequirementsTotal,
			requirementClass(record.FilesFailed == 0),
			formatPassRate(record.PassRate))
		hw.text(record.StartedAt.UTC().Format("2006-01-02 15:04:05"))
		hw.raw("</td></tr>\n")
	}
	hw.raw("</table>\n")
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
