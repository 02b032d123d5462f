// Package subject executes the prompt under test for one run. Subject
// output is evidence to be judged, never interpreted as structured data.
package subject

import (
	"context"
	"fmt"
	"strings"

	"quorum/internal/agent"
	"quorum/internal/extract"
	"quorum/internal/unwrap"
)

// BuildPrompt constructs the run instruction. The same spec always yields
// the same instruction; run-to-run variation comes from the agent alone.
func BuildPrompt(spec extract.TestSpec) string {
	var builder strings.Builder
	builder.WriteString("Execute the prompt below against its context.\n")
	builder.WriteString("Answer in plain prose. Do not wrap the answer in JSON, markdown fences, or any other markup.\n\n")
	builder.WriteString("Context:\n")
	builder.WriteString(spec.Context)
	builder.WriteString("\n\nPrompt:\n")
	builder.WriteString(spec.SubjectPrompt)
	builder.WriteString("\n")
	return builder.String()
}

// Execute runs the subject prompt once and returns its output with one
// envelope layer removed.
func Execute(ctx context.Context, invoker agent.Invoker, base agent.Request, spec extract.TestSpec) (string, error) {
	req := base
	req.Input = BuildPrompt(spec)
	output, err := invoker.Invoke(ctx, req)
	if err != nil {
		return "", fmt.Errorf("subject run: %w", err)
	}
	return unwrap.Raw(output), nil
}
