// Package agent is the subprocess boundary to external language-model
// agents. An agent is an opaque binary: the instruction goes in on stdin,
// the reply comes back on stdout, and everything else about it is untrusted.
package agent

import (
	"context"
	"time"
)

// Request describes one agent invocation.
type Request struct {
	Command string
	Args    []string
	Input   string
	Timeout time.Duration
}

// Invoker runs one agent call and returns its raw stdout text.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, req Request) (string, error)

// Invoke calls the wrapped function.
func (f InvokerFunc) Invoke(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
