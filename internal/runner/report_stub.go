package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// runReportStub is the minimal self-contained report written next to
// results.json. The report command renders the full page on demand.
func runReportStub(results Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>Quorum Report</title></head><body>"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>Quorum Report</h1><p>Run %s for commit %s</p>",
			templ.EscapeString(results.RunID), templ.EscapeString(results.Repo.Commit)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<ul>"); err != nil {
			return err
		}
		for _, file := range results.Files {
			if _, err := fmt.Fprintf(w, "<li>%s: %s</li>",
				templ.EscapeString(file.TestFile), templ.EscapeString(strings.ToUpper(file.Status))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul></body></html>\n")
		return err
	})
}

// renderRunReportHTML renders the stub report into a string.
func renderRunReportHTML(ctx context.Context, results Results) (string, error) {
	var builder strings.Builder
	if err := runReportStub(results).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
