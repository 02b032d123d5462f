package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

// nullableString converts an optional string into a SQL argument, mapping
// nil and empty strings to NULL.
func nullableString(value *string) interface{} {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

// lookupID fetches a single ID column value for a row keyed by keyColumn.
func lookupID(ctx context.Context, db *sql.DB, table, idColumn, keyColumn, key string) (string, error) {
	query := fmt.Sprintf("SELECT CAST(%s AS VARCHAR) FROM %s WHERE %s = ?", idColumn, table, keyColumn)
	var id string
	if err := db.QueryRowContext(ctx, query, key).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// lookupFileID fetches the surviving file id for a run and test file pair.
func lookupFileID(ctx context.Context, db *sql.DB, runID, testFile string) (string, error) {
	var id string
	err := db.QueryRowContext(
		ctx,
		"SELECT CAST(file_id AS VARCHAR) FROM test_files WHERE run_id = ? AND test_file = ?",
		runID,
		testFile,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
