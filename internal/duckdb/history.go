package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one row of the run history, newest first.
type RunRecord struct {
	RunID              string
	Repo               string
	Commit             string
	Branch             string
	Dirty              bool
	StartedAt          time.Time
	FinishedAt         time.Time
	FilesTotal         int
	FilesPassed        int
	FilesFailed        int
	RequirementsTotal  int
	RequirementsPassed int
	PassRate           float64
	IngestedAt         time.Time
}

// LoadRunHistory opens the warehouse at dbPath and returns all recorded runs.
func LoadRunHistory(ctx context.Context, dbPath string) ([]RunRecord, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return QueryRunHistory(ctx, db)
}

// QueryRunHistory reads the run history view.
func QueryRunHistory(ctx context.Context, db *sql.DB) ([]RunRecord, error) {
	rows, err := db.QueryContext(
		ctx,
		`SELECT run_id, repo, commit_sha, branch, dirty, started_at, finished_at,
		        files_total, files_passed, files_failed,
		        requirements_total, requirements_passed, pass_rate, ingested_at
		 FROM v_run_history`,
	)
	if err != nil {
		return nil, fmt.Errorf("query run history: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var record RunRecord
		var branch sql.NullString
		if err := rows.Scan(
			&record.RunID,
			&record.Repo,
			&record.Commit,
			&branch,
			&record.Dirty,
			&record.StartedAt,
			&record.FinishedAt,
			&record.FilesTotal,
			&record.FilesPassed,
			&record.FilesFailed,
			&record.RequirementsTotal,
			&record.RequirementsPassed,
			&record.PassRate,
			&record.IngestedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run history row: %w", err)
		}
		record.Branch = branch.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run history: %w", err)
	}
	return records, nil
}
