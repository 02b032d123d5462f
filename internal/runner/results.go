package runner

import "time"

// Results is the terminal output of a run, persisted as results.json.
type Results struct {
	RunID      string       `json:"run_id"`
	Repo       RepoMetadata `json:"repo"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
	Summary    RunSummary   `json:"summary"`
}

// RepoMetadata captures repository identity at run time.
type RepoMetadata struct {
	Name   string `json:"name"`
	VCS    string `json:"vcs"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
	Dirty  bool   `json:"dirty"`
}

// FileResult is the outcome of one test file's pipeline.
type FileResult struct {
	TestFile       string              `json:"test_file"`
	Status         string              `json:"status"`
	FailureReason  *string             `json:"failure_reason"`
	Spec           SpecInfo            `json:"spec"`
	Runs           int                 `json:"runs"`
	Threshold      float64             `json:"threshold"`
	RequiredPasses int                 `json:"required_passes"`
	Requirements   []RequirementResult `json:"requirements"`
	Summary        FileSummary         `json:"summary"`
}

// SpecInfo records the extracted specification alongside its results.
type SpecInfo struct {
	SubjectPrompt string   `json:"subject_prompt"`
	ImportPaths   []string `json:"import_paths"`
	Requirements  []string `json:"requirements"`
}

// RequirementResult aggregates one requirement's verdicts across runs.
type RequirementResult struct {
	ID           int          `json:"id"`
	Requirement  string       `json:"requirement"`
	Passed       bool         `json:"passed"`
	PassCount    int          `json:"pass_count"`
	TotalRuns    int          `json:"total_runs"`
	AverageScore float64      `json:"average_score"`
	RunResults   []RunVerdict `json:"run_results"`
}

// RunVerdict is one judge verdict for one run of one requirement.
// Error is non-empty when the run or judge call failed and the verdict
// stands in as absorbed non-passing evidence.
type RunVerdict struct {
	Run      int               `json:"run"`
	Passed   bool              `json:"passed"`
	Actual   string            `json:"actual"`
	Expected string            `json:"expected"`
	Score    float64           `json:"score"`
	Extra    map[string]string `json:"extra,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// FileSummary totals one file's requirement outcomes.
type FileSummary struct {
	RequirementsTotal  int     `json:"requirements_total"`
	RequirementsPassed int     `json:"requirements_passed"`
	RequirementsFailed int     `json:"requirements_failed"`
	RunsTotal          int     `json:"runs_total"`
	PassRate           float64 `json:"pass_rate"`
}

// RunSummary totals outcomes across all files of a run.
type RunSummary struct {
	FilesTotal         int     `json:"files_total"`
	FilesPassed        int     `json:"files_passed"`
	FilesFailed        int     `json:"files_failed"`
	RequirementsTotal  int     `json:"requirements_total"`
	RequirementsPassed int     `json:"requirements_passed"`
	PassRate           float64 `json:"pass_rate"`
}

// File status values.
const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusError = "error"
)
