package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"quorum/internal/runner"
)

const pageStyle = `body{font-family:sans-serif;margin:2rem;color:#1a1a1a}
table{border-collapse:collapse;margin:0.5rem 0 1.5rem}
th,td{border:1px solid #ccc;padding:0.3rem 0.6rem;text-align:left}
th{background:#f2f2f2}
.pass{color:#157f3b;font-weight:bold}
.fail{color:#b3261e;font-weight:bold}
.error{color:#8a5a00;font-weight:bold}
.meta{color:#555;font-size:0.9rem}
details{margin:0.3rem 0 1rem}`

// htmlWriter accumulates the first write error so components stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) rawf(format string, args ...interface{}) {
	if hw.err == nil {
		_, hw.err = fmt.Fprintf(hw.w, format, args...)
	}
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// ReportPage renders the full report for one or more recorded runs.
func ReportPage(runs []runner.Results) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Quorum Report</title>\n<style>")
		hw.raw(pageStyle)
		hw.raw("</style>\n</head>\n<body>\n<h1>Quorum Report</h1>\n")
		if len(runs) == 0 {
			hw.raw("<p>No runs recorded.</p>\n")
		}
		for i := range runs {
			writeRunSection(hw, runs[i])
		}
		hw.raw("</body>\n</html>\n")
		return hw.err
	})
}

func writeRunSection(hw *htmlWriter, run runner.Results) {
	hw.raw("<section>\n<h2>Run ")
	hw.text(run.RunID)
	hw.raw("</h2>\n<p class=\"meta\">")
	hw.text(run.Repo.Name)
	hw.raw(" @ ")
	hw.text(run.Repo.Commit)
	if run.Repo.Branch != "" {
		hw.raw(" (")
		hw.text(run.Repo.Branch)
		hw.raw(")")
	}
	if run.Repo.Dirty {
		hw.raw(" [dirty]")
	}
	if !run.StartedAt.IsZero() {
		hw.raw(" &middot; started ")
		hw.text(run.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	hw.raw("</p>\n")
	hw.rawf("<p>%d/%d files passed &middot; %d/%d requirements passed &middot; pass rate %s%%</p>\n",
		run.Summary.FilesPassed, run.Summary.FilesTotal,
		run.Summary.RequirementsPassed, run.Summary.RequirementsTotal,
		formatPassRate(run.Summary.PassRate))
	for i := range run.Files {
		writeFileSection(hw, run.Files[i])
	}
	hw.raw("</section>\n")
}

func writeFileSection(hw *htmlWriter, file runner.FileResult) {
	hw.raw("<h3>")
	hw.text(file.TestFile)
	hw.rawf(" <span class=\"%s\">%s</span></h3>\n", statusClass(file.Status), templ.EscapeString(strings.ToUpper(file.Status)))
	if file.FailureReason != nil && *file.FailureReason != "" {
		hw.raw("<p class=\"error\">")
		hw.text(*file.FailureReason)
		hw.raw("</p>\n")
	}
	if len(file.Requirements) == 0 {
		return
	}
	hw.rawf("<p class=\"meta\">%d run(s), %d of %d needed per requirement</p>\n",
		file.Runs, file.RequiredPasses, file.Runs)
	hw.raw("<table>\n<tr><th>#</th><th>Requirement</th><th>Passed runs</th><th>Avg score</th><th>Result</th></tr>\n")
	for _, req := range file.Requirements {
		hw.rawf("<tr><td>%d</td><td>%s</td><td>%d/%d</td><td>%s</td><td class=\"%s\">%s</td></tr>\n",
			req.ID,
			templ.EscapeString(req.Requirement),
			req.PassCount, req.TotalRuns,
			formatScore(req.AverageScore),
			requirementClass(req.Passed),
			requirementLabel(req.Passed))
	}
	hw.raw("</table>\n")
	for _, req := range file.Requirements {
		writeFailedVerdicts(hw, req)
	}
}

// writeFailedVerdicts lists non-passing evidence for a requirement so a
// reader can see what the judge objected to.
func writeFailedVerdicts(hw *htmlWriter, req runner.RequirementResult) {
	failed := make([]runner.RunVerdict, 0)
	for _, verdict := range req.RunResults {
		if !verdict.Passed {
			failed = append(failed, verdict)
		}
	}
	if len(failed) == 0 {
		return
	}
	hw.rawf("<details><summary>Requirement %d: %d failing run(s)</summary>\n<ul>\n", req.ID, len(failed))
	for _, verdict := range failed {
		hw.rawf("<li>Run %d: ", verdict.Run)
		if verdict.Error != "" {
			hw.text(verdict.Error)
		} else {
			hw.raw("got <em>")
			hw.text(verdict.Actual)
			hw.raw("</em>, wanted <em>")
			hw.text(verdict.Expected)
			hw.raw("</em>")
		}
		hw.raw("</li>\n")
	}
	hw.raw("</ul>\n</details>\n")
}

func statusClass(status string) string {
	switch status {
	case runner.StatusPass:
		return "pass"
	case runner.StatusFail:
		return "fail"
	default:
		return "error"
	}
}

func requirementClass(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

func requirementLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}
