package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"quorum/internal/runner"
)

// Controller runs the live UI and implements runner.RunObserver.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run start events to the UI.
func (c *Controller) OnRunStart(runID string, repo string) {
	c.send(Event{Kind: EventRunStart, RunID: runID, Repo: repo})
}

// OnFileStart forwards file start events to the UI.
func (c *Controller) OnFileStart(testFile string) {
	c.send(Event{Kind: EventFileStart, TestFile: testFile})
}

// OnSpecReady forwards extraction output to the UI.
func (c *Controller) OnSpecReady(testFile string, requirements []string, runs int) {
	c.send(Event{
		Kind:         EventSpecReady,
		TestFile:     testFile,
		Requirements: len(requirements),
		Runs:         runs,
	})
}

// OnRunEvent forwards subject run status updates to the UI.
func (c *Controller) OnRunEvent(event runner.RunEvent) {
	c.send(Event{Kind: EventRun, Run: event})
}

// OnFileEnd forwards file completion events to the UI.
func (c *Controller) OnFileEnd(testFile string, status string, reason *string) {
	c.send(Event{Kind: EventFileEnd, TestFile: testFile, FileStatus: status, FileReason: reason})
}

// OnRunEnd forwards run completion to the UI and closes it.
func (c *Controller) OnRunEnd(results runner.Results) {
	c.send(Event{Kind: EventRunEnd})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
