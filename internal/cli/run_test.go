package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quorum/internal/runner"
	"quorum/internal/spec"
)

// writeRunConfig writes a .quorum.yml into dir and returns its path.
func writeRunConfig(t *testing.T, dir, body string) string {
	t.Helper()
	specPath := filepath.Join(dir, ".quorum.yml")
	if err := os.WriteFile(specPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return specPath
}

const runConfigBody = `version: 1
output_dir: "./quorum-results"
agent:
  command: "fake-agent"
defaults:
  runs: 3
  threshold: 80
  concurrency: 2
`

// stubRunAndWrite replaces the pipeline seam for the test's duration.
func stubRunAndWrite(t *testing.T, fn func(ctx context.Context, cfg spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error)) {
	t.Helper()
	orig := runAndWrite
	runAndWrite = fn
	t.Cleanup(func() { runAndWrite = orig })
}

func passingResults(runID string) runner.Results {
	return runner.Results{
		RunID: runID,
		Repo:  runner.RepoMetadata{Name: "demo", VCS: "git", Commit: "abc123"},
		Summary: runner.RunSummary{
			FilesTotal:         1,
			FilesPassed:        1,
			RequirementsTotal:  2,
			RequirementsPassed: 2,
			PassRate:           1,
		},
	}
}

// TestRunCommandUsesConfigDefaults verifies the plan comes from config when
// no flags override it.
func TestRunCommandUsesConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	var gotParams runner.RunParams
	paths := runner.OutputPaths{Root: filepath.Join(dir, "quorum-results"), Commit: "abc123", RunID: "run-1"}
	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		gotParams = params
		return passingResults("run-1"), paths, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if gotParams.Plan.Runs != 3 || gotParams.Plan.Threshold != 80 || gotParams.Plan.Concurrency != 2 {
		t.Fatalf("unexpected plan: %+v", gotParams.Plan)
	}
	if len(gotParams.TestFiles) != 1 || gotParams.TestFiles[0] != "greeting.test.md" {
		t.Fatalf("unexpected test files: %v", gotParams.TestFiles)
	}
	if gotParams.ProjectRoot != dir {
		t.Fatalf("expected project root %q, got %q", dir, gotParams.ProjectRoot)
	}
	if gotParams.Observer != nil {
		t.Fatalf("plain ui must not attach an observer")
	}
	output := stdout.String()
	if !strings.Contains(output, "Run run-1 completed") {
		t.Fatalf("expected completion line, got %q", output)
	}
	if !strings.Contains(output, "Results: "+paths.ResultsPath()) {
		t.Fatalf("expected results path, got %q", output)
	}
	if !strings.Contains(output, "Report: "+paths.ReportPath()) {
		t.Fatalf("expected report path, got %q", output)
	}
}

// TestRunCommandFlagsOverridePlan verifies flags beat config values,
// including an explicit zero threshold.
func TestRunCommandFlagsOverridePlan(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	var gotParams runner.RunParams
	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		gotParams = params
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run", "--spec", specPath, "--ui", "plain",
		"--runs", "5", "--threshold", "0", "--concurrency", "4",
		"greeting.test.md",
	}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if gotParams.Plan.Runs != 5 {
		t.Fatalf("expected 5 runs, got %d", gotParams.Plan.Runs)
	}
	if gotParams.Plan.Threshold != 0 {
		t.Fatalf("expected explicit zero threshold, got %v", gotParams.Plan.Threshold)
	}
	if gotParams.Plan.Concurrency != 4 {
		t.Fatalf("expected concurrency 4, got %d", gotParams.Plan.Concurrency)
	}
}

// TestRunCommandParsesFlags verifies verbose and logging wiring.
func TestRunCommandParsesFlags(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)
	logPath := filepath.Join(dir, "logs", "run.log")

	var gotParams runner.RunParams
	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		gotParams = params
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{
		"run", "--spec", specPath,
		"--verbose", "--no-color", "--log", logPath,
		"--output-dir", filepath.Join(dir, "elsewhere"),
		"greeting.test.md",
	}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if !gotParams.Verbose {
		t.Fatalf("expected verbose enabled")
	}
	if gotParams.VerboseWriter != &stdout {
		t.Fatalf("expected verbose writer to be stdout")
	}
	if gotParams.VerboseLogWriter == nil {
		t.Fatalf("expected verbose log writer to be set")
	}
	if !gotParams.NoColor {
		t.Fatalf("expected no-color enabled")
	}
	if gotParams.OutputDir != filepath.Join(dir, "elsewhere") {
		t.Fatalf("unexpected output dir: %q", gotParams.OutputDir)
	}
	if gotParams.Observer != nil {
		t.Fatalf("verbose runs must not attach the live observer")
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

// TestRunCommandRequiresTestFiles verifies at least one file is demanded.
func TestRunCommandRequiresTestFiles(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"run"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), "Usage: quorum run") {
		t.Fatalf("expected usage hint, got %q", stderr.String())
	}
}

// TestRunCommandRejectsInvalidPlan verifies plan validation happens before
// any agent is spawned.
func TestRunCommandRejectsInvalidPlan(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		t.Fatalf("pipeline must not run with an invalid plan")
		return runner.Results{}, runner.OutputPaths{}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--threshold", "150", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(stderr.String(), "Invalid run plan") {
		t.Fatalf("expected plan error, got %q", stderr.String())
	}
}

// TestRunCommandReportsPipelineFailure verifies a failed run surfaces the
// error and exits nonzero.
func TestRunCommandReportsPipelineFailure(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		return runner.Results{}, runner.OutputPaths{}, errors.New("agent exploded")
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(stderr.String(), "Run failed: agent exploded") {
		t.Fatalf("expected failure message, got %q", stderr.String())
	}
}

// TestRunCommandFailingFilesExitNonzero verifies the exit code reflects
// failed files even though outputs were written.
func TestRunCommandFailingFilesExitNonzero(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	results := passingResults("run-1")
	results.Summary.FilesPassed = 0
	results.Summary.FilesFailed = 1
	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		return results, runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(stdout.String(), "Run run-1 completed") {
		t.Fatalf("expected completion line despite failures, got %q", stdout.String())
	}
}

// TestRunCommandAgentOverride verifies --agent-command rewrites the agent
// before normalization so the judge inherits it.
func TestRunCommandAgentOverride(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	var gotConfig spec.Config
	stubRunAndWrite(t, func(_ context.Context, cfg spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		gotConfig = cfg
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "--agent-command", "other-agent", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if gotConfig.Agent.Command != "other-agent" {
		t.Fatalf("unexpected agent command: %q", gotConfig.Agent.Command)
	}
	if gotConfig.Judge.Command != "other-agent" {
		t.Fatalf("expected judge to inherit override, got %q", gotConfig.Judge.Command)
	}
}

// TestRunCommandIngestsWarehouse verifies results land in the configured
// DuckDB warehouse, resolved against the project root.
func TestRunCommandIngestsWarehouse(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody+`report:
  db_path: "history.duckdb"
`)

	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var gotDBPath string
	var gotResults runner.Results
	origIngest := ingestRun
	ingestRun = func(_ context.Context, dbPath string, results runner.Results) error {
		gotDBPath = dbPath
		gotResults = results
		return nil
	}
	t.Cleanup(func() { ingestRun = origIngest })

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if gotDBPath != filepath.Join(dir, "history.duckdb") {
		t.Fatalf("unexpected db path: %q", gotDBPath)
	}
	if gotResults.RunID != "run-1" {
		t.Fatalf("unexpected ingested run: %q", gotResults.RunID)
	}
}

// TestRunCommandWarehouseFailureWarns verifies a broken warehouse only
// warns; the run itself still succeeds.
func TestRunCommandWarehouseFailureWarns(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody+`report:
  db_path: "history.duckdb"
`)

	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, _ runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	origIngest := ingestRun
	ingestRun = func(_ context.Context, _ string, _ runner.Results) error {
		return errors.New("disk full")
	}
	t.Cleanup(func() { ingestRun = origIngest })

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "plain", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("ingestion failure must not fail the run, got exit %d", code)
	}
	if !strings.Contains(stderr.String(), "Warning: failed to ingest run") {
		t.Fatalf("expected ingestion warning, got %q", stderr.String())
	}
}

// fakeLiveController records observer lifecycle calls.
type fakeLiveController struct {
	closed bool
	waited bool
}

func (f *fakeLiveController) OnRunStart(string, string) {}

func (f *fakeLiveController) OnFileStart(string) {}

func (f *fakeLiveController) OnSpecReady(string, []string, int) {}

func (f *fakeLiveController) OnRunEvent(runner.RunEvent) {}

func (f *fakeLiveController) OnFileEnd(string, string, *string) {}

func (f *fakeLiveController) OnRunEnd(runner.Results) {}

func (f *fakeLiveController) Close() { f.closed = true }

func (f *fakeLiveController) Wait() { f.waited = true }

// TestRunCommandLiveUILifecycle verifies the live controller observes the
// run and is shut down afterwards.
func TestRunCommandLiveUILifecycle(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	origTerminal := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	t.Cleanup(func() { isTerminal = origTerminal })

	controller := &fakeLiveController{}
	origStart := startLiveUI
	startLiveUI = func(_ io.Writer, _ bool) liveController { return controller }
	t.Cleanup(func() { startLiveUI = origStart })

	var gotParams runner.RunParams
	stubRunAndWrite(t, func(_ context.Context, _ spec.Config, params runner.RunParams) (runner.Results, runner.OutputPaths, error) {
		gotParams = params
		return passingResults("run-1"), runner.OutputPaths{Root: dir, Commit: "abc123", RunID: "run-1"}, nil
	})

	var stdout, stderr bytes.Buffer
	code := Run([]string{"run", "--spec", specPath, "--ui", "live", "greeting.test.md"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("unexpected exit %d, stderr: %s", code, stderr.String())
	}
	if gotParams.Observer != controller {
		t.Fatalf("expected the live controller to observe the run")
	}
	if !controller.closed || !controller.waited {
		t.Fatalf("expected controller shutdown, closed=%v waited=%v", controller.closed, controller.waited)
	}
}
