package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"quorum/internal/duckdb"
	"quorum/internal/runner"
)

// fixtureConfig defines the JSON config for generating a warehouse fixture.
// Zero values fall back to a small demo history.
type fixtureConfig struct {
	Repo          string  `json:"repo"`
	Commits       int     `json:"commits"`
	RunsPerCommit int     `json:"runs_per_commit"`
	Files         int     `json:"files"`
	Requirements  int     `json:"requirements"`
	Runs          int     `json:"runs"`
	Threshold     float64 `json:"threshold"`
}

func main() {
	configPath := flag.String("config", "", "path to fixture config JSON")
	outPath := flag.String("out", "", "output duckdb file path")
	flag.Parse()
	if *configPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_fixture --config <path> --out <duckdb file>")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := removeIfExists(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(dirOf(*outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output dir: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := generateFixture(ctx, *outPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generate fixture: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (fixtureConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureConfig{}, err
	}
	var cfg fixtureConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fixtureConfig{}, err
	}
	if cfg.Repo == "" {
		cfg.Repo = "demo"
	}
	if cfg.Commits <= 0 {
		cfg.Commits = 20
	}
	if cfg.RunsPerCommit <= 0 {
		cfg.RunsPerCommit = 1
	}
	if cfg.Files <= 0 {
		cfg.Files = 3
	}
	if cfg.Requirements <= 0 {
		cfg.Requirements = 4
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 3
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 80
	}
	return cfg, nil
}

// generateFixture ingests a synthetic run history through the same path the
// CLI uses, so fixture rows are shaped exactly like production rows.
func generateFixture(ctx context.Context, path string, cfg fixtureConfig) error {
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := duckdb.EnsureSchema(db); err != nil {
		return err
	}
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	sequence := 0
	for commit := 0; commit < cfg.Commits; commit++ {
		sha := deterministicSHA(commit)
		for attempt := 0; attempt < cfg.RunsPerCommit; attempt++ {
			startedAt := start.Add(time.Duration(sequence) * 45 * time.Minute)
			results := buildRun(cfg, commit, sha, sequence, startedAt)
			if err := duckdb.IngestRun(ctx, db, results); err != nil {
				return err
			}
			sequence++
		}
	}
	return nil
}

func buildRun(cfg fixtureConfig, commit int, sha string, sequence int, startedAt time.Time) runner.Results {
	results := runner.Results{
		RunID: deterministicID("run", sequence),
		Repo: runner.RepoMetadata{
			Name:   cfg.Repo,
			VCS:    "git",
			Commit: sha,
			Branch: "main",
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Duration(cfg.Files*cfg.Runs) * 20 * time.Second),
	}
	for file := 0; file < cfg.Files; file++ {
		fileResult := buildFile(cfg, commit, file)
		results.Summary.FilesTotal++
		if fileResult.Status == runner.StatusPass {
			results.Summary.FilesPassed++
		} else {
			results.Summary.FilesFailed++
		}
		results.Summary.RequirementsTotal += fileResult.Summary.RequirementsTotal
		results.Summary.RequirementsPassed += fileResult.Summary.RequirementsPassed
		results.Files = append(results.Files, fileResult)
	}
	if results.Summary.RequirementsTotal > 0 {
		results.Summary.PassRate = float64(results.Summary.RequirementsPassed) / float64(results.Summary.RequirementsTotal)
	}
	return results
}

func buildFile(cfg fixtureConfig, commit, file int) runner.FileResult {
	required := runner.RequiredPasses(cfg.Runs, cfg.Threshold)
	result := runner.FileResult{
		TestFile: fmt.Sprintf("quorum-tests/feature_%02d.test.md", file+1),
		Spec: runner.SpecInfo{
			SubjectPrompt: "You are the demo assistant used to seed fixture data.",
			ImportPaths:   []string{"context.md"},
		},
		Runs:           cfg.Runs,
		Threshold:      cfg.Threshold,
		RequiredPasses: required,
	}
	for req := 0; req < cfg.Requirements; req++ {
		requirement := fmt.Sprintf("The reply satisfies acceptance check %d.", req+1)
		result.Spec.Requirements = append(result.Spec.Requirements, requirement)
		reqResult := runner.RequirementResult{
			ID:          req + 1,
			Requirement: requirement,
			TotalRuns:   cfg.Runs,
		}
		scoreSum := 0.0
		for run := 1; run <= cfg.Runs; run++ {
			score := syntheticScore(cfg, commit, file, req, run)
			passed := score >= 70
			verdict := runner.RunVerdict{
				Run:      run,
				Passed:   passed,
				Actual:   "The reply satisfied the check.",
				Expected: "A reply that satisfies the check.",
				Score:    score,
			}
			if !passed {
				verdict.Actual = "The reply ignored the check."
			}
			if passed {
				reqResult.PassCount++
			}
			scoreSum += score
			reqResult.RunResults = append(reqResult.RunResults, verdict)
		}
		reqResult.Passed = reqResult.PassCount >= required
		reqResult.AverageScore = scoreSum / float64(cfg.Runs)
		result.Summary.RequirementsTotal++
		result.Summary.RunsTotal += cfg.Runs
		if reqResult.Passed {
			result.Summary.RequirementsPassed++
		} else {
			result.Summary.RequirementsFailed++
		}
		result.Requirements = append(result.Requirements, reqResult)
	}
	if result.Summary.RequirementsFailed == 0 {
		result.Status = runner.StatusPass
	} else {
		result.Status = runner.StatusFail
		reason := fmt.Sprintf("%d of %d requirements below threshold", result.Summary.RequirementsFailed, result.Summary.RequirementsTotal)
		result.FailureReason = &reason
	}
	if result.Summary.RequirementsTotal > 0 {
		result.Summary.PassRate = float64(result.Summary.RequirementsPassed) / float64(result.Summary.RequirementsTotal)
	}
	return result
}

// syntheticScore trends upward across commits so the seeded history shows a
// repository converging on its requirements. Deterministic so regenerating
// the fixture yields identical rows.
func syntheticScore(cfg fixtureConfig, commit, file, req, run int) float64 {
	progress := 0.0
	if cfg.Commits > 1 {
		progress = float64(commit) / float64(cfg.Commits-1)
	}
	base := 40 + 55*progress
	jitter := float64((file*5+req*3+run*7)%21) - 10
	return math.Min(100, math.Max(0, base+jitter))
}

// deterministicSHA fabricates a stable 40-char commit id for a fixture commit.
func deterministicSHA(index int) string {
	a := uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("commit-a-%d", index)))
	b := uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("commit-b-%d", index)))
	return fmt.Sprintf("%x", a[:])[:20] + fmt.Sprintf("%x", b[:])[:20]
}

// deterministicID generates a repeatable UUID for fixture rows.
func deterministicID(prefix string, index int) string {
	return uuid.NewSHA1(fixtureNamespace, []byte(fmt.Sprintf("%s-%d", prefix, index))).String()
}

// dirOf returns the parent directory for a file path.
func dirOf(path string) string {
	if path == "" {
		return "."
	}
	if idx := len(path) - 1; idx >= 0 && path[idx] == os.PathSeparator {
		return path
	}
	return filepath.Dir(path)
}

// removeIfExists deletes an existing fixture file so we always start fresh.
func removeIfExists(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing fixture: %w", err)
		}
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("stat fixture: %w", err)
}

// fixtureNamespace ensures stable UUIDs across fixture runs.
var fixtureNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
