package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the run table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Run", Width: 5},
		{Title: "Status", Width: 12},
		{Title: "Verdicts", Width: 10},
		{Title: "Last requirement", Width: 40},
		{Title: "Elapsed", Width: 10},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatRunLabel(row.Index),
			formatStatus(row, noColor),
			formatVerdicts(row, state.Requirements),
			formatRequirementText(row.LastRequirement),
			formatRowDuration(row, now),
		})
	}
	return rows
}
