package runner

import "time"

// RunEventType identifies a run status update for observers.
type RunEventType string

const (
	// RunQueued marks a run known but not yet submitted.
	RunQueued RunEventType = "queued"
	// RunScheduled marks a run submitted to the scheduler.
	RunScheduled RunEventType = "scheduled"
	// RunExecuting marks an active subject call.
	RunExecuting RunEventType = "executing"
	// RunJudging marks parallel judge calls in flight for a run.
	RunJudging RunEventType = "judging"
	// RunVerdictReady marks one requirement's verdict for a run.
	RunVerdictReady RunEventType = "verdict"
	// RunCompleted marks a run fully judged.
	RunCompleted RunEventType = "completed"
	// RunErrored marks a run whose subject call failed.
	RunErrored RunEventType = "errored"
)

// RunEvent carries a single status update for one run of one file.
type RunEvent struct {
	TestFile      string
	Run           int
	Type          RunEventType
	RequirementID int
	Requirement   string
	Passed        bool
	Score         float64
	Error         string
	EmittedAt     time.Time
}

// RunObserver receives run lifecycle events for UI or logging.
type RunObserver interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runID string, repo string)
	// OnFileStart signals the start of a test file's pipeline.
	OnFileStart(testFile string)
	// OnSpecReady delivers the extracted requirements and planned runs.
	OnSpecReady(testFile string, requirements []string, runs int)
	// OnRunEvent delivers a run status update.
	OnRunEvent(event RunEvent)
	// OnFileEnd signals completion of a test file's pipeline.
	OnFileEnd(testFile string, status string, reason *string)
	// OnRunEnd signals run completion.
	OnRunEnd(results Results)
}

// nopObserver discards all events.
type nopObserver struct{}

func (nopObserver) OnRunStart(string, string) {}

func (nopObserver) OnFileStart(string) {}

func (nopObserver) OnSpecReady(string, []string, int) {}

func (nopObserver) OnRunEvent(RunEvent) {}

func (nopObserver) OnFileEnd(string, string, *string) {}

func (nopObserver) OnRunEnd(Results) {}

// observerOrNop returns a usable observer even when none was supplied.
func observerOrNop(observer RunObserver) RunObserver {
	if observer == nil {
		return nopObserver{}
	}
	return observer
}
