package runner

import (
	"context"
	"time"

	"quorum/internal/extract"
	"quorum/internal/judge"
	"quorum/internal/subject"
	"quorum/pkg/scheduler"
)

// collectRunVerdicts executes all runs for one file under the plan's
// concurrency ceiling. The returned slice is indexed by run in submission
// order; every run yields one verdict per requirement, with failed runs
// absorbed as errored verdicts rather than propagated.
func collectRunVerdicts(ctx context.Context, pipe filePipeline, testFile string, testSpec extract.TestSpec) [][]RunVerdict {
	emitter := runEmitter{observer: pipe.observer, testFile: testFile}
	evidence := make([][]RunVerdict, pipe.plan.Runs)
	tasks := make([]scheduler.Task, pipe.plan.Runs)
	for index := range tasks {
		run := index + 1
		emitter.Emit(run, RunQueued, runEventFields{})
		tasks[index] = func(taskCtx context.Context) error {
			evidence[index] = executeRun(taskCtx, pipe, emitter, testSpec, run)
			return nil
		}
	}
	// Runs absorb their own failures, so no task error can surface here.
	_, _ = scheduler.Collect(ctx, pipe.plan.Concurrency, tasks)
	return evidence
}

// executeRun performs one subject call and judges its output against every
// requirement. A failed subject call marks every requirement's verdict for
// this run as errored evidence.
func executeRun(ctx context.Context, pipe filePipeline, emitter runEmitter, testSpec extract.TestSpec, run int) []RunVerdict {
	emitter.Emit(run, RunExecuting, runEventFields{})
	logVerbose(pipe.verbose, pipe.verboseWriter, pipe.verboseLog, pipe.noColor, styleFile,
		"File %s run %d/%d executing subject", emitter.testFile, run, pipe.plan.Runs)
	started := time.Now()

	output, err := subject.Execute(ctx, pipe.subject, pipe.subjectReq, testSpec)
	if err != nil {
		logVerbose(pipe.verbose, pipe.verboseWriter, pipe.verboseLog, pipe.noColor, styleError,
			"File %s run %d subject error=%v", emitter.testFile, run, err)
		emitter.Emit(run, RunErrored, runEventFields{Error: err.Error()})
		return erroredRunVerdicts(testSpec.Requirements, run, err.Error())
	}

	emitter.Emit(run, RunJudging, runEventFields{})
	judged := judge.Run(ctx, pipe.judge, pipe.judgeReq, testSpec, output)

	verdicts := make([]RunVerdict, len(judged))
	passed := 0
	for i, item := range judged {
		verdicts[i] = runVerdict(run, item)
		if verdicts[i].Passed {
			passed++
		}
		emitter.Emit(run, RunVerdictReady, runEventFields{
			RequirementID: item.Requirement.ID,
			Requirement:   item.Requirement.Requirement,
			Passed:        verdicts[i].Passed,
			Score:         verdicts[i].Score,
			Error:         verdicts[i].Error,
		})
	}
	logVerbose(pipe.verbose, pipe.verboseWriter, pipe.verboseLog, pipe.noColor, styleMetrics,
		"Metrics file=%s run=%d requirements=%d passed=%d wall_time=%s",
		emitter.testFile, run, len(verdicts), passed, time.Since(started).Round(time.Millisecond))
	emitter.Emit(run, RunCompleted, runEventFields{})
	return verdicts
}

// runVerdict converts a judge result into run evidence. Judge failures
// keep the zero verdict and carry the error text.
func runVerdict(run int, result judge.Result) RunVerdict {
	verdict := RunVerdict{
		Run:      run,
		Passed:   result.Verdict.Passed,
		Actual:   result.Verdict.Actual,
		Expected: result.Verdict.Expected,
		Score:    result.Verdict.Score,
		Extra:    result.Verdict.Extra,
	}
	if result.Err != nil {
		verdict.Error = result.Err.Error()
	}
	return verdict
}

// erroredRunVerdicts stands in for a run whose subject call failed.
func erroredRunVerdicts(requirements []extract.Requirement, run int, errText string) []RunVerdict {
	verdicts := make([]RunVerdict, len(requirements))
	for i := range requirements {
		verdicts[i] = RunVerdict{Run: run, Error: errText}
	}
	return verdicts
}

// runEventFields carries the optional fields of a run event.
type runEventFields struct {
	RequirementID int
	Requirement   string
	Passed        bool
	Score         float64
	Error         string
}

// runEmitter emits observer events for one file's runs.
type runEmitter struct {
	observer RunObserver
	testFile string
}

func (e runEmitter) Emit(run int, eventType RunEventType, fields runEventFields) {
	e.observer.OnRunEvent(RunEvent{
		TestFile:      e.testFile,
		Run:           run,
		Type:          eventType,
		RequirementID: fields.RequirementID,
		Requirement:   fields.Requirement,
		Passed:        fields.Passed,
		Score:         fields.Score,
		Error:         fields.Error,
		EmittedAt:     time.Now(),
	})
}
