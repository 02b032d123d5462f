package runner

import (
	"math"

	"quorum/internal/extract"
	"quorum/internal/fault"
)

// RequiredPasses returns the quorum for a requirement: the minimum number
// of passing runs out of totalRuns at the given threshold percentage.
func RequiredPasses(totalRuns int, threshold float64) int {
	return int(math.Ceil(float64(totalRuns) * threshold / 100.0))
}

// ValidateRunPlan rejects invalid run parameters before any agent call.
func ValidateRunPlan(totalRuns int, threshold float64, concurrency int) error {
	if totalRuns < 1 {
		return fault.Newf(fault.Validation, "run_count_invalid", "runs must be at least 1, got %d", totalRuns)
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 || threshold > 100 {
		return fault.Newf(fault.Validation, "threshold_invalid", "threshold must be a finite number in [0,100], got %v", threshold)
	}
	if concurrency < 1 {
		return fault.Newf(fault.Validation, "concurrency_invalid", "concurrency must be at least 1, got %d", concurrency)
	}
	return nil
}

// Aggregate folds per-run verdicts into per-requirement results.
// runVerdicts is indexed by run; each inner slice aligns with requirements.
// The fold is pure: the same evidence always yields the same results.
func Aggregate(requirements []extract.Requirement, runVerdicts [][]RunVerdict, requiredPasses int) []RequirementResult {
	results := make([]RequirementResult, len(requirements))
	for reqIndex, requirement := range requirements {
		verdicts := make([]RunVerdict, 0, len(runVerdicts))
		passCount := 0
		scoreSum := 0.0
		for _, run := range runVerdicts {
			if reqIndex >= len(run) {
				continue
			}
			verdict := run[reqIndex]
			verdicts = append(verdicts, verdict)
			if verdict.Passed {
				passCount++
			}
			scoreSum += verdict.Score
		}
		average := 0.0
		if len(verdicts) > 0 {
			average = roundScore(scoreSum / float64(len(verdicts)))
		}
		results[reqIndex] = RequirementResult{
			ID:           requirement.ID,
			Requirement:  requirement.Requirement,
			Passed:       passCount >= requiredPasses,
			PassCount:    passCount,
			TotalRuns:    len(verdicts),
			AverageScore: average,
			RunResults:   verdicts,
		}
	}
	return results
}

// roundScore rounds to two decimal places for deterministic rendering.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}

// fileSummary totals requirement outcomes for one file.
func fileSummary(requirements []RequirementResult, runsTotal int) FileSummary {
	summary := FileSummary{
		RequirementsTotal: len(requirements),
		RunsTotal:         runsTotal,
	}
	for _, requirement := range requirements {
		if requirement.Passed {
			summary.RequirementsPassed++
		} else {
			summary.RequirementsFailed++
		}
	}
	if summary.RequirementsTotal > 0 {
		summary.PassRate = float64(summary.RequirementsPassed) / float64(summary.RequirementsTotal)
	}
	return summary
}

// summarize totals file outcomes for a whole run.
func summarize(files []FileResult) RunSummary {
	summary := RunSummary{FilesTotal: len(files)}
	for _, file := range files {
		switch file.Status {
		case StatusPass:
			summary.FilesPassed++
		case StatusFail, StatusError:
			summary.FilesFailed++
		}
		summary.RequirementsTotal += file.Summary.RequirementsTotal
		summary.RequirementsPassed += file.Summary.RequirementsPassed
	}
	if summary.RequirementsTotal > 0 {
		summary.PassRate = float64(summary.RequirementsPassed) / float64(summary.RequirementsTotal)
	}
	return summary
}
