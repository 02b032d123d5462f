package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"quorum/internal/runner"
)

// formatRunLabel returns the display label for a run number.
func formatRunLabel(run int) string {
	return "R" + pad2(run)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatRequirementText truncates requirement text for display.
func formatRequirementText(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}
	const limit = 40
	if len(normalized) <= limit {
		return normalized
	}
	return normalized[:limit-3] + "..."
}

// formatStatus renders a status string for a row.
func formatStatus(row RunRow, noColor bool) string {
	label := statusLabel(row.Status)
	if row.Status == runner.RunErrored && row.Error != "" {
		label = label + ": " + row.Error
	}
	return stylizeStatus(label, row.Status, noColor)
}

// statusLabel maps status codes to display labels.
func statusLabel(status runner.RunEventType) string {
	switch status {
	case runner.RunQueued:
		return "queued"
	case runner.RunScheduled:
		return "scheduled"
	case runner.RunExecuting:
		return "executing"
	case runner.RunJudging:
		return "judging"
	case runner.RunCompleted:
		return "completed"
	case runner.RunErrored:
		return "errored"
	default:
		return string(status)
	}
}

// formatVerdicts renders judged verdict progress for a row.
func formatVerdicts(row RunRow, requirements int) string {
	if row.Verdicts == 0 {
		return ""
	}
	progress := fmtInt(row.VerdictsPassed) + "/" + fmtInt(row.Verdicts)
	if requirements > 0 && row.Verdicts < requirements {
		progress += " (" + fmtInt(requirements) + " total)"
	}
	return progress
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row RunRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return row.FinishedAt.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	if !row.StartedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatFileEnd formats a file completion message.
func formatFileEnd(testFile, status string, reason *string) string {
	if reason != nil && *reason != "" {
		return testFile + " " + status + " (" + *reason + ")"
	}
	return testFile + " " + status
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status runner.RunEventType, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status runner.RunEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case runner.RunCompleted:
		color = lipgloss.Color("42")
	case runner.RunErrored:
		color = lipgloss.Color("196")
	case runner.RunExecuting:
		color = lipgloss.Color("33")
	case runner.RunJudging:
		color = lipgloss.Color("201")
	case runner.RunQueued, runner.RunScheduled:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
