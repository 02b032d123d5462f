package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
	}
	line := "Run " + state.RunID
	if state.Repo != "" {
		line += " | Repo: " + state.Repo
	}
	if elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Queued: " + fmtInt(counts.Queued) +
		" Scheduled: " + fmtInt(counts.Scheduled) +
		" Executing: " + fmtInt(counts.Executing) +
		" Judging: " + fmtInt(counts.Judging) +
		" Done: " + fmtInt(counts.Done) +
		" Errored: " + fmtInt(counts.Errored)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFileLine renders the current test file line.
func renderFileLine(state State, noColor bool) string {
	if state.TestFile == "" {
		return ""
	}
	line := "Testing " + state.TestFile
	if state.Requirements > 0 {
		line += " | " + fmtInt(state.Requirements) + " requirement(s) x " + fmtInt(state.PlannedRuns) + " run(s)"
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
