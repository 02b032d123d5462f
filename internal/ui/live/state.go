package live

import (
	"time"

	"quorum/internal/runner"
)

// RunRow holds UI state for a single subject run.
type RunRow struct {
	Index           int
	Status          runner.RunEventType
	Verdicts        int
	VerdictsPassed  int
	LastRequirement string
	StartedAt       time.Time
	FinishedAt      time.Time
	Error           string
}

// StatusCounts aggregates run counts by status bucket.
type StatusCounts struct {
	Queued    int
	Scheduled int
	Executing int
	Judging   int
	Done      int
	Completed int
	Errored   int
}

// State captures the live UI state for the current test file.
type State struct {
	RunID        string
	Repo         string
	TestFile     string
	Requirements int
	PlannedRuns  int
	StartedAt    time.Time
	LastEvent    string
	Rows         []RunRow
	Counts       StatusCounts
}
