package duckdb_test

import (
	"context"
	"testing"
	"time"

	"quorum/internal/duckdb"
	"quorum/internal/runner"
)

// sampleResults builds a two-file run: one passing file with verdicts and one
// file that failed before extraction produced a spec.
func sampleResults(runID string, startedAt time.Time) runner.Results {
	reason := "spec extraction produced no requirements"
	return runner.Results{
		RunID: runID,
		Repo: runner.RepoMetadata{
			Name:   "demo",
			VCS:    "git",
			Commit: "abc123def456",
			Branch: "main",
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Minute),
		Files: []runner.FileResult{
			{
				TestFile: "quorum-tests/greeting.test.md",
				Status:   runner.StatusPass,
				Spec: runner.SpecInfo{
					SubjectPrompt: "Say hello",
					Requirements:  []string{"mentions a greeting", "is polite"},
				},
				Runs:           2,
				Threshold:      50,
				RequiredPasses: 1,
				Requirements: []runner.RequirementResult{
					{
						ID:          1,
						Requirement: "mentions a greeting",
						Passed:      true,
						PassCount:   2,
						TotalRuns:   2,
						RunResults: []runner.RunVerdict{
							{Run: 1, Passed: true, Actual: "hello", Expected: "a greeting", Score: 1},
							{Run: 2, Passed: true, Actual: "hi", Expected: "a greeting", Score: 0.9},
						},
					},
					{
						ID:          2,
						Requirement: "is polite",
						Passed:      true,
						PassCount:   1,
						TotalRuns:   2,
						RunResults: []runner.RunVerdict{
							{Run: 1, Passed: true, Actual: "polite", Expected: "politeness", Score: 1},
							{Run: 2, Passed: false, Actual: "curt", Expected: "politeness", Score: 0.2, Error: "judge call timed out"},
						},
					},
				},
				Summary: runner.FileSummary{
					RequirementsTotal:  2,
					RequirementsPassed: 2,
					RunsTotal:          2,
					PassRate:           1,
				},
			},
			{
				TestFile:      "quorum-tests/broken.test.md",
				Status:        runner.StatusError,
				FailureReason: &reason,
			},
		},
		Summary: runner.RunSummary{
			FilesTotal:         2,
			FilesPassed:        1,
			FilesFailed:        1,
			RequirementsTotal:  2,
			RequirementsPassed: 2,
			PassRate:           1,
		},
	}
}

// TestIngestRunIdempotent verifies re-ingesting a run adds no rows.
func TestIngestRunIdempotent(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sampleResults("20240102T030405Z-deadbee", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	if err := duckdb.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := duckdb.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest again: %v", err)
	}

	for table, want := range map[string]int{
		"repos":      1,
		"runs":       1,
		"specs":      1,
		"test_files": 2,
		"verdicts":   4,
	} {
		if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM "+table); got != want {
			t.Fatalf("%s row count: got %d want %d", table, got, want)
		}
	}
}

// TestIngestRunRecordsVerdicts verifies verdict rows carry judge evidence.
func TestIngestRunRecordsVerdicts(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sampleResults("20240102T030405Z-deadbee", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := duckdb.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	failed := queryInt(t, ctx, db, "SELECT COUNT(*) FROM verdicts WHERE NOT passed")
	if failed != 1 {
		t.Fatalf("expected one failed verdict, got %d", failed)
	}
	var verdictErr string
	err := db.QueryRowContext(ctx,
		"SELECT error FROM verdicts WHERE requirement_id = 2 AND run_number = 2",
	).Scan(&verdictErr)
	if err != nil {
		t.Fatalf("query verdict error: %v", err)
	}
	if verdictErr != "judge call timed out" {
		t.Fatalf("unexpected verdict error: %q", verdictErr)
	}
}

// TestIngestRunKeepsFailedFilesSpecless verifies error files get a NULL spec.
func TestIngestRunKeepsFailedFilesSpecless(t *testing.T) {
	db, ctx := openTestDB(t)
	results := sampleResults("20240102T030405Z-deadbee", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := duckdb.IngestRun(ctx, db, results); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	specless := queryInt(t, ctx, db, "SELECT COUNT(*) FROM test_files WHERE spec_key IS NULL")
	if specless != 1 {
		t.Fatalf("expected one spec-less file, got %d", specless)
	}
	var reason string
	err := db.QueryRowContext(ctx,
		"SELECT failure_reason FROM test_files WHERE status = ?", runner.StatusError,
	).Scan(&reason)
	if err != nil {
		t.Fatalf("query failure reason: %v", err)
	}
	if reason != "spec extraction produced no requirements" {
		t.Fatalf("unexpected failure reason: %q", reason)
	}
}

// TestUpsertRepoDeduplicates verifies repos collapse onto their name.
func TestUpsertRepoDeduplicates(t *testing.T) {
	db, ctx := openTestDB(t)
	first, err := duckdb.UpsertRepo(ctx, db, runner.RepoMetadata{Name: "demo", VCS: "git"})
	if err != nil {
		t.Fatalf("upsert repo: %v", err)
	}
	second, err := duckdb.UpsertRepo(ctx, db, runner.RepoMetadata{Name: "demo", VCS: "git"})
	if err != nil {
		t.Fatalf("upsert repo again: %v", err)
	}
	if first != second {
		t.Fatalf("repo ids mismatch: %s vs %s", first, second)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM repos"); got != 1 {
		t.Fatalf("repos row count: got %d want 1", got)
	}
}

// TestUpsertSpecSkipsEmpty verifies empty specs produce no row and no key.
func TestUpsertSpecSkipsEmpty(t *testing.T) {
	db, ctx := openTestDB(t)
	key, err := duckdb.UpsertSpec(ctx, db, runner.SpecInfo{})
	if err != nil {
		t.Fatalf("upsert empty spec: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
	if got := queryInt(t, ctx, db, "SELECT COUNT(*) FROM specs"); got != 0 {
		t.Fatalf("specs row count: got %d want 0", got)
	}
}

// runWithTimeout ensures a test body finishes before the context deadline.
func runWithTimeout(t *testing.T, ctx context.Context, fn func() error) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()
	select {
	case <-ctx.Done():
		t.Fatalf("test timed out: %v", ctx.Err())
	case err := <-done:
		if err != nil {
			t.Fatalf("test failed: %v", err)
		}
	}
}
