package runner

import (
	"context"
	"io"
	"os"

	"quorum/internal/agent"
	"quorum/internal/extract"
	"quorum/internal/fault"
	"quorum/internal/pathguard"
)

const failureReasonUnmet = "requirements_unmet"

// filePipeline bundles everything one test file's pipeline needs.
type filePipeline struct {
	projectRoot   string
	plan          RunPlan
	subjectReq    agent.Request
	judgeReq      agent.Request
	subject       agent.Invoker
	judge         agent.Invoker
	verbose       bool
	verboseWriter io.Writer
	verboseLog    io.Writer
	noColor       bool
	observer      RunObserver
}

// runTestFile executes the extract, run, judge, and aggregate stages for
// one test file. Extraction failures end the file with status error before
// any subject run is started; unmet requirements end it with status fail.
func runTestFile(ctx context.Context, pipe filePipeline, testFile string) FileResult {
	pipe.observer.OnFileStart(testFile)
	result := FileResult{
		TestFile:       testFile,
		Runs:           pipe.plan.Runs,
		Threshold:      pipe.plan.Threshold,
		RequiredPasses: RequiredPasses(pipe.plan.Runs, pipe.plan.Threshold),
	}

	resolved, err := pathguard.Resolve(pipe.projectRoot, testFile)
	if err != nil {
		return failFile(pipe, result, err)
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return failFile(pipe, result, fault.Wrap(fault.Validation, "test_file_unreadable", "read test file", err).With("path", resolved))
	}

	logVerbose(pipe.verbose, pipe.verboseWriter, pipe.verboseLog, pipe.noColor, styleFile,
		"File %s extracting specification agent=%s", testFile, pipe.subjectReq.Command)
	testSpec, err := extract.Extract(ctx, pipe.subject, extract.Params{
		FileText:    string(raw),
		ProjectRoot: pipe.projectRoot,
		Agent:       pipe.subjectReq,
	})
	if err != nil {
		logVerbose(pipe.verbose, pipe.verboseWriter, pipe.verboseLog, pipe.noColor, styleError,
			"File %s extraction error=%v", testFile, err)
		return failFile(pipe, result, err)
	}

	result.Spec = SpecInfo{
		SubjectPrompt: testSpec.SubjectPrompt,
		ImportPaths:   testSpec.ImportPaths,
		Requirements:  requirementTexts(testSpec.Requirements),
	}
	pipe.observer.OnSpecReady(testFile, result.Spec.Requirements, pipe.plan.Runs)

	evidence := collectRunVerdicts(ctx, pipe, testFile, testSpec)
	result.Requirements = Aggregate(testSpec.Requirements, evidence, result.RequiredPasses)
	result.Summary = fileSummary(result.Requirements, pipe.plan.Runs)

	if result.Summary.RequirementsFailed == 0 {
		result.Status = StatusPass
	} else {
		result.Status = StatusFail
		reason := failureReasonUnmet
		result.FailureReason = &reason
	}
	pipe.observer.OnFileEnd(testFile, result.Status, result.FailureReason)
	return result
}

// failFile records a pre-run failure on the file result.
func failFile(pipe filePipeline, result FileResult, err error) FileResult {
	reason := fault.CodeOf(err)
	if reason == "" {
		reason = "runtime_error"
	}
	result.Status = StatusError
	result.FailureReason = &reason
	pipe.observer.OnFileEnd(result.TestFile, result.Status, result.FailureReason)
	return result
}

func requirementTexts(requirements []extract.Requirement) []string {
	texts := make([]string, len(requirements))
	for i, requirement := range requirements {
		texts[i] = requirement.Requirement
	}
	return texts
}
