package live

import "quorum/internal/runner"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventFileStart signals the start of a test file's pipeline.
	EventFileStart
	// EventSpecReady delivers extraction output for the current file.
	EventSpecReady
	// EventRun delivers a subject run status update.
	EventRun
	// EventFileEnd signals file completion.
	EventFileEnd
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind         EventKind
	RunID        string
	Repo         string
	TestFile     string
	Requirements int
	Runs         int
	FileStatus   string
	FileReason   *string
	Run          runner.RunEvent
}
