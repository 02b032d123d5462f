package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quorum/internal/config"
	"quorum/internal/duckdb"
	"quorum/internal/runner"
	"quorum/internal/spec"
	"quorum/internal/ui/live"
)

// runAndWrite is a test seam for pipeline execution.
var runAndWrite = runner.RunAndWrite

// ingestRun is a test seam for warehouse ingestion.
var ingestRun = duckdb.IngestRunFile

// liveController is the slice of live.Controller the run command needs.
type liveController interface {
	runner.RunObserver
	Close()
	Wait()
}

// startLiveUI is a test seam for launching the live UI.
var startLiveUI = func(stdout io.Writer, noColor bool) liveController {
	return live.Start(stdout, live.Options{NoColor: noColor})
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		specPath := fs.String("spec", "", "Path to config file (default: search for .quorum.yml)")
		runs := fs.Int("runs", 0, "Times to run the subject prompt per file")
		threshold := fs.Float64("threshold", 0, "Percentage of runs that must pass, 0-100")
		concurrency := fs.Int("concurrency", 0, "Concurrent runs per file")
		agentCommand := fs.String("agent-command", "", "Override the agent command")
		outputDir := fs.String("output-dir", "", "Override output directory")
		uiMode := fs.String("ui", "auto", "UI mode: auto, live, or plain")
		verbose := fs.Bool("verbose", false, "Verbose logging")
		logPath := fs.String("log", "", "Write verbose logs to a file")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		testFiles := fs.Args()
		if len(testFiles) == 0 {
			fmt.Fprintln(stderr, "Usage: quorum run [options] <test-file>...")
			return ExitUsage
		}

		resolvedSpec, err := resolveSpecPath(*specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to locate config: %v\n", err)
			return ExitError
		}
		cfg, err := loadRunConfig(resolvedSpec, *agentCommand)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		plan := runner.RunPlan{
			Runs:        cfg.Defaults.Runs,
			Threshold:   *cfg.Defaults.Threshold,
			Concurrency: cfg.Defaults.Concurrency,
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "runs":
				plan.Runs = *runs
			case "threshold":
				plan.Threshold = *threshold
			case "concurrency":
				plan.Concurrency = *concurrency
			}
		})
		if err := runner.ValidateRunPlan(plan.Runs, plan.Threshold, plan.Concurrency); err != nil {
			fmt.Fprintf(stderr, "Invalid run plan: %v\n", err)
			return ExitUsage
		}

		uiDecision, err := resolveUIMode(*uiMode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if uiDecision.warning != "" {
			fmt.Fprintln(stderr, uiDecision.warning)
		}

		var logFile io.WriteCloser
		if strings.TrimSpace(*logPath) != "" {
			dir := filepath.Dir(*logPath)
			if dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					fmt.Fprintf(stderr, "Failed to create log directory: %v\n", err)
					return ExitError
				}
			}
			file, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to open log file: %v\n", err)
				return ExitError
			}
			logFile = file
			defer func() { _ = logFile.Close() }()
		}

		params := runner.RunParams{
			ProjectRoot:      resolveProjectRoot(cfg.ProjectRoot, resolvedSpec),
			OutputDir:        *outputDir,
			TestFiles:        testFiles,
			Plan:             plan,
			Verbose:          *verbose,
			VerboseWriter:    stdout,
			VerboseLogWriter: logFile,
			NoColor:          *noColor,
		}

		var controller liveController
		if uiDecision.useLive {
			controller = startLiveUI(stdout, *noColor)
			params.Observer = controller
		}

		results, paths, err := runAndWrite(context.Background(), cfg, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}

		if dbPath := strings.TrimSpace(cfg.Report.DBPath); dbPath != "" {
			if !filepath.IsAbs(dbPath) {
				dbPath = filepath.Join(params.ProjectRoot, dbPath)
			}
			if err := ingestRun(context.Background(), dbPath, results); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to ingest run into %s: %v\n", dbPath, err)
			}
		}

		fmt.Fprint(stdout, runner.RenderText(results))
		fmt.Fprintf(stdout, "\nRun %s completed\n", results.RunID)
		fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
		fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())

		if results.Summary.FilesFailed > 0 {
			return ExitError
		}
		return ExitOK
	}
}

// loadRunConfig loads the config with the agent command override applied
// before normalization, so an inherited judge follows the override.
func loadRunConfig(path, agentCommand string) (spec.Config, error) {
	if strings.TrimSpace(agentCommand) == "" {
		return config.Load(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := spec.ParseConfig(data)
	if err != nil {
		return spec.Config{}, err
	}
	cfg.Agent.Command = agentCommand
	config.Normalize(&cfg)
	if err := config.Validate(&cfg, config.ProjectRootFromConfigPath(path)); err != nil {
		return spec.Config{}, err
	}
	return cfg, nil
}
