package cli

import (
	"flag"
	"fmt"
	"io"

	"quorum/internal/report"
	"quorum/internal/runner"
)

var resolveRun = report.ResolveRun

func runCompare(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		inputDir := fs.String("input", "", "Directory containing recorded runs")
		specPath := fs.String("spec", "", "Path to config file (default: search for .quorum.yml)")
		baseRef := fs.String("base", "", "Baseline commit, run id, or ref")
		headRef := fs.String("head", "HEAD", "Commit, run id, or ref to compare against the baseline")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *baseRef == "" {
			fmt.Fprintln(stderr, "Usage: quorum compare --base <commit|run-id|ref> [--head <commit|run-id|ref>]")
			return ExitUsage
		}

		outputDir, projectRoot, err := resolveInputDir(*inputDir, *specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve input: %v\n", err)
			return ExitError
		}

		base, _, err := resolveRun(outputDir, projectRoot, *baseRef)
		if err != nil {
			fmt.Fprintf(stderr, "Base run not found: %v\n", err)
			return ExitError
		}
		head, _, err := resolveRun(outputDir, projectRoot, *headRef)
		if err != nil {
			fmt.Fprintf(stderr, "Head run not found: %v\n", err)
			return ExitError
		}

		printComparison(stdout, base, head)
		return ExitOK
	}
}

func printComparison(w io.Writer, base, head runner.Results) {
	baseRate := base.Summary.PassRate * 100
	headRate := head.Summary.PassRate * 100
	fmt.Fprintf(w, "Base %s (%s): %d/%d requirements passed (%.2f%%)\n",
		shortCommit(base.Repo.Commit), base.RunID, base.Summary.RequirementsPassed, base.Summary.RequirementsTotal, baseRate)
	fmt.Fprintf(w, "Head %s (%s): %d/%d requirements passed (%.2f%%)\n",
		shortCommit(head.Repo.Commit), head.RunID, head.Summary.RequirementsPassed, head.Summary.RequirementsTotal, headRate)
	fmt.Fprintf(w, "Pass rate delta: %+.2f%%\n", headRate-baseRate)
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
