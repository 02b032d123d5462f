package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quorum/internal/agent"
	"quorum/internal/fault"
	"quorum/internal/spec"
	"quorum/internal/vcs"
)

// RunPlan fixes how many runs each file gets, the pass threshold, and the
// run-level concurrency ceiling. The caller resolves config defaults and
// flag overrides before handing the plan to Run.
type RunPlan struct {
	Runs        int
	Threshold   float64
	Concurrency int
}

// MetadataLoader resolves repository metadata for a project root.
type MetadataLoader func(ctx context.Context, root string) vcs.Metadata

// RunDependencies allows injecting invokers, clocks, and metadata for a run.
type RunDependencies struct {
	SubjectInvoker agent.Invoker
	JudgeInvoker   agent.Invoker
	Metadata       MetadataLoader
	RunID          func() (string, error)
	Now            func() time.Time
}

// RunParams configures a run invocation.
type RunParams struct {
	ProjectRoot      string
	OutputDir        string
	TestFiles        []string
	Plan             RunPlan
	Verbose          bool
	VerboseWriter    io.Writer
	VerboseLogWriter io.Writer
	NoColor          bool
	Observer         RunObserver
	Deps             RunDependencies
}

// Run executes every test file's pipeline and returns the collected
// results. Plan violations and an empty file list fail before any agent
// subprocess is spawned; per-file failures are recorded on the file result
// and never abort sibling files.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, error) {
	projectRoot, err := resolveProjectRoot(cfg, params.ProjectRoot)
	if err != nil {
		return Results{}, err
	}
	if err := ValidateRunPlan(params.Plan.Runs, params.Plan.Threshold, params.Plan.Concurrency); err != nil {
		return Results{}, err
	}
	if len(params.TestFiles) == 0 {
		return Results{}, fault.New(fault.Validation, "test_files_missing", "at least one test file is required")
	}

	// Wrap before building dependencies so the invoker warn hook shares the
	// serialized writers.
	verboseWriter, verboseLog := wrapVerboseWriters(params.Plan.Concurrency, params.VerboseWriter, params.VerboseLogWriter)
	params.VerboseWriter = verboseWriter
	params.VerboseLogWriter = verboseLog

	deps := fillDependencies(cfg, params)
	runID, err := deps.RunID()
	if err != nil {
		return Results{}, err
	}
	meta := deps.Metadata(ctx, projectRoot)
	startedAt := deps.Now()

	observer := observerOrNop(params.Observer)
	observer.OnRunStart(runID, meta.Name)

	pipe := filePipeline{
		projectRoot:   projectRoot,
		plan:          params.Plan,
		subjectReq:    agentRequest(cfg.Agent),
		judgeReq:      agentRequest(cfg.Judge),
		subject:       deps.SubjectInvoker,
		judge:         deps.JudgeInvoker,
		verbose:       params.Verbose,
		verboseWriter: verboseWriter,
		verboseLog:    verboseLog,
		noColor:       params.NoColor,
		observer:      observer,
	}

	files := make([]FileResult, 0, len(params.TestFiles))
	for _, testFile := range params.TestFiles {
		files = append(files, runTestFile(ctx, pipe, testFile))
	}

	results := Results{
		RunID:      runID,
		Repo:       RepoMetadata{Name: meta.Name, VCS: meta.VCS, Commit: meta.Commit, Branch: meta.Branch, Dirty: meta.Dirty},
		StartedAt:  startedAt,
		FinishedAt: deps.Now(),
		Files:      files,
		Summary:    summarize(files),
	}
	observer.OnRunEnd(results)
	return results, nil
}

// RunAndWrite runs the pipeline and persists outputs under the output dir.
func RunAndWrite(ctx context.Context, cfg spec.Config, params RunParams) (Results, OutputPaths, error) {
	projectRoot, err := resolveProjectRoot(cfg, params.ProjectRoot)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	params.ProjectRoot = projectRoot
	results, err := Run(ctx, cfg, params)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	outputDir := params.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = cfg.OutputDir
	}
	outputDir = resolveOutputDir(projectRoot, outputDir)
	paths, err := WriteRunOutputs(results, outputDir)
	if err != nil {
		return results, OutputPaths{}, err
	}
	return results, paths, nil
}

// fillDependencies applies defaults for any dependency left unset.
func fillDependencies(cfg spec.Config, params RunParams) RunDependencies {
	deps := params.Deps
	warn := func(format string, args ...any) {
		logVerbose(params.Verbose, params.VerboseWriter, params.VerboseLogWriter, params.NoColor, styleError, format, args...)
	}
	if deps.SubjectInvoker == nil {
		deps.SubjectInvoker = &agent.Subprocess{Stream: cfg.Agent.Stream, Warn: warn}
	}
	if deps.JudgeInvoker == nil {
		deps.JudgeInvoker = &agent.Subprocess{Stream: cfg.Judge.Stream, Warn: warn}
	}
	if deps.Metadata == nil {
		deps.Metadata = vcs.Describe
	}
	if deps.RunID == nil {
		deps.RunID = NewRunID
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return deps
}

// agentRequest builds the invocation template for an agent config.
func agentRequest(cfg spec.AgentConfig) agent.Request {
	return agent.Request{
		Command: cfg.Command,
		Args:    append([]string(nil), cfg.Args...),
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// resolveProjectRoot prefers the explicit override, then the config value,
// then the working directory.
func resolveProjectRoot(cfg spec.Config, override string) (string, error) {
	root := strings.TrimSpace(override)
	if root == "" {
		root = strings.TrimSpace(cfg.ProjectRoot)
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fault.Wrap(fault.Validation, "project_root_unresolved", "resolve working directory", err)
		}
		root = wd
	}
	return root, nil
}

// resolveOutputDir resolves relative output paths against the project root.
func resolveOutputDir(projectRoot, outputDir string) string {
	if outputDir == "" || filepath.IsAbs(outputDir) {
		return outputDir
	}
	return filepath.Join(projectRoot, outputDir)
}
