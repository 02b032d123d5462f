package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quorum/internal/duckdb"
	"quorum/internal/report"
	"quorum/internal/runner"
)

var buildReportHTML = report.BuildReportHTML

var buildHistoryHTML = report.BuildHistoryHTML

var loadRunHistory = duckdb.LoadRunHistory

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		inputDir := fs.String("input", "", "Directory containing recorded runs")
		specPath := fs.String("spec", "", "Path to config file (default: search for .quorum.yml)")
		commitRef := fs.String("commit", "", "Commit, branch, or ref to report on (default HEAD)")
		runID := fs.String("run", "", "Exact run id to report on")
		dbPath := fs.String("db", "", "Render run history from a DuckDB warehouse")
		outputPath := fs.String("output", "", "Report output path")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		if *dbPath != "" {
			records, err := loadRunHistory(context.Background(), *dbPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load run history: %v\n", err)
				return ExitError
			}
			reportPath := *outputPath
			if reportPath == "" {
				reportPath = "quorum-report.html"
			}
			if err := os.WriteFile(reportPath, []byte(buildHistoryHTML(records)), 0o644); err != nil {
				fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
			return ExitOK
		}

		outputDir, projectRoot, err := resolveInputDir(*inputDir, *specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve input: %v\n", err)
			return ExitError
		}

		ref := *runID
		if ref == "" {
			ref = *commitRef
		}
		if ref == "" {
			ref = "HEAD"
		}
		results, runDir, err := resolveRun(outputDir, projectRoot, ref)
		if err != nil {
			fmt.Fprintf(stderr, "Run not found: %v\n", err)
			return ExitError
		}

		html := buildReportHTML([]runner.Results{results})
		reportPath := *outputPath
		if reportPath == "" {
			reportPath = filepath.Join(runDir, "report.html")
		}
		if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
			fmt.Fprintf(stderr, "Failed to write report: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report written to %s\n", reportPath)
		return ExitOK
	}
}
