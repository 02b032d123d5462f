package agent

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"quorum/internal/fault"
	"quorum/internal/unwrap"
)

// stderrTailBytes bounds how much captured stderr is attached to faults.
const stderrTailBytes = 2048

// Subprocess invokes an agent binary on the local machine. The instruction
// is written to stdin and stdout is collected whole. With Stream set,
// stdout is decoded as a newline-delimited event stream; Warn receives one
// message per malformed stream line.
type Subprocess struct {
	Stream bool
	Warn   func(format string, args ...any)
}

// Invoke runs the agent once. The subprocess gets its own process group so
// a timeout can kill the agent together with any children it spawned.
// Exactly one of natural exit or timeout wins: a process that exits before
// the deadline fires is never misreported as timed out.
func (s Subprocess) Invoke(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Command) == "" {
		return "", fault.New(fault.Validation, "agent_command_missing", "agent command is required")
	}
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.Command(req.Command, req.Args...)
	setProcessGroup(cmd)
	cmd.Stdin = strings.NewReader(req.Input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fault.Wrap(fault.Process, "agent_spawn", "starting agent process", err).
			With("command", req.Command)
	}

	cmdDone := make(chan struct{})
	watchdogDone := make(chan struct{})
	go func() {
		defer close(watchdogDone)
		select {
		case <-runCtx.Done():
			_ = killProcessGroup(cmd)
		case <-cmdDone:
		}
	}()
	waitErr := cmd.Wait()
	close(cmdDone)
	<-watchdogDone

	if waitErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", fault.Wrap(fault.Timeout, "agent_timeout", "agent run exceeded its deadline", waitErr).
				With("command", req.Command).
				With("timeout", req.Timeout.String())
		}
		if errors.Is(runCtx.Err(), context.Canceled) {
			return "", fault.Wrap(fault.Process, "agent_canceled", "agent run canceled", waitErr).
				With("command", req.Command)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return "", fault.Newf(fault.Process, "agent_exit", "agent exited with status %d", exitErr.ExitCode()).
				With("command", req.Command).
				With("stderr", tail(stderr.String(), stderrTailBytes))
		}
		return "", fault.Wrap(fault.Process, "agent_wait", "waiting for agent process", waitErr).
			With("command", req.Command)
	}

	output := stdout.String()
	if s.Stream {
		text, err := unwrap.Stream(output, s.Warn)
		if err != nil {
			return "", err
		}
		return text, nil
	}
	return output, nil
}

// tail returns at most n trailing bytes of s; the agent's actual complaint
// tends to sit at the end of stderr.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
