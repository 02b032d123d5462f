package runner

import (
	"context"
	"sync"
	"testing"

	"quorum/internal/agent"
	"quorum/internal/testutil"
)

// TestRunObserverEmitsRunLifecycle verifies ordered run events for a
// passing pipeline.
func TestRunObserverEmitsRunLifecycle(t *testing.T) {
	root, testFile := writeTestProject(t)
	subjectInvoker := &scriptedInvoker{reply: func(req agent.Request) (string, error) {
		if isExtractionCall(req) {
			return extractionReply, nil
		}
		return "Hello there!", nil
	}}
	judgeInvoker := &scriptedInvoker{reply: func(agent.Request) (string, error) {
		return passingBlock, nil
	}}
	observer := &recordingObserver{}

	ctx := testutil.Context(t, 0)
	_, err := Run(ctx, testConfig(root), RunParams{
		TestFiles: []string{testFile},
		Plan:      RunPlan{Runs: 1, Threshold: 100, Concurrency: 1},
		Observer:  observer,
		Deps:      testDeps(subjectInvoker, judgeInvoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if observer.runID != "20250102T030405Z-cafe01" {
		t.Fatalf("unexpected observed run id: %q", observer.runID)
	}
	if len(observer.specReady) != 1 || observer.specReady[0] != testFile {
		t.Fatalf("expected spec-ready for %s, got %v", testFile, observer.specReady)
	}
	events := observer.eventsForRun(testFile, 1)
	expected := []RunEventType{RunQueued, RunExecuting, RunJudging, RunVerdictReady, RunCompleted}
	assertSequence(t, events, expected)
	if len(observer.fileEnds) != 1 || observer.fileEnds[0] != StatusPass {
		t.Fatalf("expected one pass file end, got %v", observer.fileEnds)
	}
	if !observer.runEnded {
		t.Fatalf("expected OnRunEnd")
	}
}

// TestRunObserverReportsErroredRun verifies a failed subject call emits
// an errored event instead of judging events.
func TestRunObserverReportsErroredRun(t *testing.T) {
	root, testFile := writeTestProject(t)
	subjectInvoker := &scriptedInvoker{reply: func(req agent.Request) (string, error) {
		if isExtractionCall(req) {
			return extractionReply, nil
		}
		return "", context.DeadlineExceeded
	}}
	judgeInvoker := &scriptedInvoker{reply: func(agent.Request) (string, error) {
		return passingBlock, nil
	}}
	observer := &recordingObserver{}

	ctx := testutil.Context(t, 0)
	_, err := Run(ctx, testConfig(root), RunParams{
		TestFiles: []string{testFile},
		Plan:      RunPlan{Runs: 1, Threshold: 100, Concurrency: 1},
		Observer:  observer,
		Deps:      testDeps(subjectInvoker, judgeInvoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	events := observer.eventsForRun(testFile, 1)
	assertSequence(t, events, []RunEventType{RunQueued, RunExecuting, RunErrored})
	for _, event := range events {
		if event == RunJudging || event == RunVerdictReady {
			t.Fatalf("unexpected judging event for errored run: %v", events)
		}
	}
	errored := observer.findEvent(RunErrored)
	if errored == nil || errored.Error == "" {
		t.Fatalf("expected errored event with error text, got %+v", errored)
	}
}

// TestRunObserverVerdictEventsCarryRequirements verifies verdict events
// name the judged requirement and score.
func TestRunObserverVerdictEventsCarryRequirements(t *testing.T) {
	root, testFile := writeTestProject(t)
	subjectInvoker := &scriptedInvoker{reply: func(req agent.Request) (string, error) {
		if isExtractionCall(req) {
			return extractionReply, nil
		}
		return "Hello there!", nil
	}}
	judgeInvoker := &scriptedInvoker{reply: func(agent.Request) (string, error) {
		return passingBlock, nil
	}}
	observer := &recordingObserver{}

	ctx := testutil.Context(t, 0)
	_, err := Run(ctx, testConfig(root), RunParams{
		TestFiles: []string{testFile},
		Plan:      RunPlan{Runs: 1, Threshold: 100, Concurrency: 1},
		Observer:  observer,
		Deps:      testDeps(subjectInvoker, judgeInvoker),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	seen := map[string]bool{}
	for _, event := range observer.allEvents() {
		if event.Type != RunVerdictReady {
			continue
		}
		if event.Requirement == "" || event.Score != 85 || !event.Passed {
			t.Fatalf("unexpected verdict event: %+v", event)
		}
		seen[event.Requirement] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected verdict events for 2 requirements, got %v", seen)
	}
}

// recordingObserver stores lifecycle callbacks for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	runID     string
	specReady []string
	events    []RunEvent
	fileEnds  []string
	runEnded  bool
}

func (o *recordingObserver) OnRunStart(runID string, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runID = runID
}

func (o *recordingObserver) OnFileStart(string) {}

func (o *recordingObserver) OnSpecReady(testFile string, _ []string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.specReady = append(o.specReady, testFile)
}

func (o *recordingObserver) OnRunEvent(event RunEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) OnFileEnd(_ string, status string, _ *string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fileEnds = append(o.fileEnds, status)
}

func (o *recordingObserver) OnRunEnd(Results) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runEnded = true
}

// eventsForRun returns ordered event types for one run of one file.
func (o *recordingObserver) eventsForRun(testFile string, run int) []RunEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]RunEventType, 0, len(o.events))
	for _, event := range o.events {
		if event.TestFile == testFile && event.Run == run {
			out = append(out, event.Type)
		}
	}
	return out
}

// findEvent returns the first event matching a type.
func (o *recordingObserver) findEvent(kind RunEventType) *RunEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, event := range o.events {
		if event.Type == kind {
			found := event
			return &found
		}
	}
	return nil
}

func (o *recordingObserver) allEvents() []RunEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]RunEvent(nil), o.events...)
}

// assertSequence ensures expected events appear in order.
func assertSequence(t *testing.T, events, expected []RunEventType) {
	t.Helper()
	pos := 0
	for _, event := range events {
		if pos < len(expected) && event == expected[pos] {
			pos++
		}
	}
	if pos != len(expected) {
		t.Fatalf("expected sequence %v, got %v", expected, events)
	}
}
