package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quorum/internal/runner"
)

// IngestRunFile opens the warehouse at dbPath, applies the schema, and
// ingests one run's results. The file is created on first use.
func IngestRunFile(ctx context.Context, dbPath string, results runner.Results) error {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := EnsureSchema(db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return IngestRun(ctx, db, results)
}

// IngestRun writes one run with its files and verdicts. Re-ingesting the
// same run is a no-op: every insert conflicts on its natural key.
func IngestRun(ctx context.Context, db *sql.DB, results runner.Results) error {
	if ctx == nil {
		return errors.New("duckdb: context is nil")
	}
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	if results.RunID == "" {
		return errors.New("duckdb: run id is empty")
	}

	repoID, err := UpsertRepo(ctx, db, results.Repo)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO runs (
		   run_id, repo_id, commit_sha, branch, dirty, started_at, finished_at,
		   files_total, files_passed, files_failed,
		   requirements_total, requirements_passed, pass_rate, ingested_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, now())
		 ON CONFLICT (run_id) DO NOTHING`,
		results.RunID,
		repoID,
		results.Repo.Commit,
		nullableString(&results.Repo.Branch),
		results.Repo.Dirty,
		results.StartedAt,
		results.FinishedAt,
		results.Summary.FilesTotal,
		results.Summary.FilesPassed,
		results.Summary.FilesFailed,
		results.Summary.RequirementsTotal,
		results.Summary.RequirementsPassed,
		results.Summary.PassRate,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", results.RunID, err)
	}

	for _, file := range results.Files {
		if err := ingestFile(ctx, db, results.RunID, file); err != nil {
			return err
		}
	}
	return nil
}

// UpsertRepo inserts the repository by name and returns its id.
func UpsertRepo(ctx context.Context, db *sql.DB, repo runner.RepoMetadata) (string, error) {
	name := repo.Name
	if name == "" {
		name = "unknown"
	}
	vcsName := repo.VCS
	if vcsName == "" {
		vcsName = "git"
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO repos (repo_id, name, vcs, created_at)
		 VALUES (?, ?, ?, now())
		 ON CONFLICT (name) DO NOTHING`,
		id,
		name,
		vcsName,
	); err != nil {
		return "", fmt.Errorf("upsert repo %s: %w", name, err)
	}
	outID, err := lookupID(ctx, db, "repos", "repo_id", "name", name)
	if err != nil {
		return "", fmt.Errorf("lookup repo id: %w", err)
	}
	return outID, nil
}

// UpsertSpec inserts the extracted spec keyed by its fingerprint and returns
// the key. An empty spec, as left behind by a failed extraction, yields an
// empty key and no row.
func UpsertSpec(ctx context.Context, db *sql.DB, info runner.SpecInfo) (string, error) {
	if info.SubjectPrompt == "" && len(info.Requirements) == 0 {
		return "", nil
	}
	payload := map[string]interface{}{
		"subject_prompt": info.SubjectPrompt,
		"requirements":   info.Requirements,
	}
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize spec: %w", err)
	}
	key := fingerprintBytes(canonical)
	requirements, err := CanonicalJSON(info.Requirements)
	if err != nil {
		return "", fmt.Errorf("canonicalize requirements: %w", err)
	}
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO specs (spec_key, subject_prompt, requirements, created_at)
		 VALUES (?, ?, ?, now())
		 ON CONFLICT (spec_key) DO NOTHING`,
		key,
		info.SubjectPrompt,
		string(requirements),
	); err != nil {
		return "", fmt.Errorf("upsert spec: %w", err)
	}
	return key, nil
}

func ingestFile(ctx context.Context, db *sql.DB, runID string, file runner.FileResult) error {
	specKey, err := UpsertSpec(ctx, db, file.Spec)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO test_files (
		   file_id, run_id, test_file, status, failure_reason, spec_key,
		   runs, threshold, required_passes,
		   requirements_total, requirements_passed, pass_rate
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, test_file) DO NOTHING`,
		id,
		runID,
		file.TestFile,
		file.Status,
		nullableString(file.FailureReason),
		nullableString(&specKey),
		file.Runs,
		file.Threshold,
		file.RequiredPasses,
		file.Summary.RequirementsTotal,
		file.Summary.RequirementsPassed,
		file.Summary.PassRate,
	); err != nil {
		return fmt.Errorf("insert file %s: %w", file.TestFile, err)
	}
	fileID, err := lookupFileID(ctx, db, runID, file.TestFile)
	if err != nil {
		return fmt.Errorf("lookup file id for %s: %w", file.TestFile, err)
	}
	return insertVerdicts(ctx, db, fileID, file.Requirements)
}

func insertVerdicts(ctx context.Context, db *sql.DB, fileID string, requirements []runner.RequirementResult) error {
	for _, req := range requirements {
		for _, verdict := range req.RunResults {
			id := uuid.NewString()
			if _, err := db.ExecContext(
				ctx,
				`INSERT INTO verdicts (
				   verdict_id, file_id, requirement_id, requirement, run_number,
				   passed, score, actual, expected, error
				 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (file_id, requirement_id, run_number) DO NOTHING`,
				id,
				fileID,
				req.ID,
				req.Requirement,
				verdict.Run,
				verdict.Passed,
				verdict.Score,
				nullableString(&verdict.Actual),
				nullableString(&verdict.Expected),
				nullableString(&verdict.Error),
			); err != nil {
				return fmt.Errorf("insert verdict %d/%d: %w", req.ID, verdict.Run, err)
			}
		}
	}
	return nil
}
