package runner

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderFileText renders one file's requirement outcomes: one line per
// requirement in aggregation order, then a closing count line. The layout
// is fixed so callers can diff outputs across runs.
func RenderFileText(file FileResult) string {
	var b strings.Builder
	for _, requirement := range file.Requirements {
		status := "FAIL"
		if requirement.Passed {
			status = "PASS"
		}
		fmt.Fprintf(&b, "%s  %s  %d/%d  avg %s", status, requirement.Requirement,
			requirement.PassCount, requirement.TotalRuns, formatScore(requirement.AverageScore))
		if refs := mediaRefs(requirement); len(refs) > 0 {
			fmt.Fprintf(&b, "  media %s", strings.Join(refs, " "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d passed, %d failed\n", file.Summary.RequirementsPassed, file.Summary.RequirementsFailed)
	return b.String()
}

// RenderText renders every file of a run, separated by blank lines.
func RenderText(results Results) string {
	var b strings.Builder
	for i, file := range results.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "== %s ==\n", file.TestFile)
		if file.Status == StatusError {
			reason := "runtime_error"
			if file.FailureReason != nil {
				reason = *file.FailureReason
			}
			fmt.Fprintf(&b, "ERROR  %s\n", reason)
			continue
		}
		b.WriteString(RenderFileText(file))
	}
	return b.String()
}

// mediaRefs collects media references judges attached to a requirement's
// verdicts, in run order without duplicates.
func mediaRefs(requirement RequirementResult) []string {
	var refs []string
	seen := map[string]bool{}
	for _, verdict := range requirement.RunResults {
		ref := strings.TrimSpace(verdict.Extra["media"])
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
