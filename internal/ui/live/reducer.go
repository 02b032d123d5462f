package live

import (
	"fmt"

	"quorum/internal/runner"
)

// Reduce applies a subject run event to the UI state.
func Reduce(state State, event runner.RunEvent) State {
	state = ensureRow(state, event.Run)
	state = applyRunEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target run. Run numbers are
// 1-based.
func ensureRow(state State, run int) State {
	if run < 1 {
		return state
	}
	if run <= len(state.Rows) {
		return state
	}
	rows := make([]RunRow, run)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = RunRow{Index: i + 1, Status: runner.RunQueued}
	}
	state.Rows = rows
	return state
}

// applyRunEvent updates a row with the given event.
func applyRunEvent(state State, event runner.RunEvent) State {
	if event.Run < 1 || event.Run > len(state.Rows) {
		return state
	}
	row := state.Rows[event.Run-1]
	switch event.Type {
	case runner.RunVerdictReady:
		row.Verdicts++
		if event.Passed {
			row.VerdictsPassed++
		}
		row.LastRequirement = event.Requirement
	case runner.RunExecuting:
		row.Status = event.Type
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.RunCompleted, runner.RunErrored:
		row.Status = event.Type
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		row.Error = event.Error
	default:
		row.Status = event.Type
	}
	state.Rows[event.Run-1] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []RunRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case runner.RunQueued:
			counts.Queued++
		case runner.RunScheduled:
			counts.Scheduled++
		case runner.RunExecuting:
			counts.Executing++
		case runner.RunJudging:
			counts.Judging++
		case runner.RunCompleted:
			counts.Done++
			counts.Completed++
		case runner.RunErrored:
			counts.Done++
			counts.Errored++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.RunEvent) string {
	switch event.Type {
	case runner.RunVerdictReady:
		outcome := "failed"
		if event.Passed {
			outcome = "passed"
		}
		return fmt.Sprintf("R%d requirement %d %s", event.Run, event.RequirementID, outcome)
	case runner.RunErrored:
		if event.Error != "" {
			return fmt.Sprintf("R%d failed: %s", event.Run, event.Error)
		}
		return fmt.Sprintf("R%d failed", event.Run)
	case runner.RunCompleted:
		return fmt.Sprintf("R%d completed", event.Run)
	case runner.RunJudging:
		return fmt.Sprintf("R%d judging", event.Run)
	}
	return ""
}
