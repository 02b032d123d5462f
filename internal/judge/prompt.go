package judge

import (
	"strings"

	"quorum/internal/extract"
)

// Markers keep the run output from bleeding into the instruction.
const (
	beginOutput = "===BEGIN OUTPUT==="
	endOutput   = "===END OUTPUT==="
)

// BuildPrompt constructs the judge instruction for exactly one requirement.
func BuildPrompt(spec extract.TestSpec, output string, requirement extract.Requirement) string {
	var builder strings.Builder
	builder.WriteString("You are judging one run of a prompt under test.\n")
	builder.WriteString("Decide whether the run output satisfies the requirement. Judge only this one requirement.\n\n")
	builder.WriteString("Context:\n")
	builder.WriteString(spec.Context)
	builder.WriteString("\n\nSubject prompt:\n")
	builder.WriteString(spec.SubjectPrompt)
	builder.WriteString("\n\nRun output:\n")
	builder.WriteString(beginOutput)
	builder.WriteString("\n")
	builder.WriteString(output)
	if !strings.HasSuffix(output, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(endOutput)
	builder.WriteString("\n\nRequirement:\n")
	builder.WriteString(requirement.Requirement)
	builder.WriteString("\n\n")
	builder.WriteString("End your reply with exactly one diagnostic block in this form:\n")
	builder.WriteString("---\n")
	builder.WriteString("passed: true or false\n")
	builder.WriteString("actual: one-line summary of what the output did\n")
	builder.WriteString("expected: one-line summary of what the requirement demands\n")
	builder.WriteString("score: a number from 0 to 100\n")
	builder.WriteString("---\n")
	return builder.String()
}
