// Package duckdb persists run results into a DuckDB warehouse so pass rates
// can be tracked across commits.
package duckdb

import (
	"database/sql"
	_ "embed"
	"errors"
)

// schemaDDL holds the warehouse schema definition.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the DDL used for initializing warehouse databases.
func SchemaDDL() string {
	return schemaDDL
}

// EnsureSchema applies the schema DDL. The DDL is idempotent, so calling it
// on an already initialized database is safe.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	_, err := db.Exec(schemaDDL)
	return err
}
