package extract

import "strings"

// Boundary markers keep the embedded file text from bleeding into the
// instruction, whatever the file contains.
const (
	beginMarker = "===BEGIN TEST FILE==="
	endMarker   = "===END TEST FILE==="
)

// BuildPrompt constructs the extraction instruction for one test file.
func BuildPrompt(fileText string) string {
	var builder strings.Builder
	builder.WriteString("Extract a test specification from the prompt test file below.\n")
	builder.WriteString("Reply with a single JSON object and nothing else, in this shape:\n")
	builder.WriteString(`{"subjectPrompt": "...", "importPaths": ["..."], "requirements": [{"id": 1, "requirement": "..."}]}`)
	builder.WriteString("\n\n")
	builder.WriteString("subjectPrompt is the prompt under test, verbatim.\n")
	builder.WriteString("importPaths lists the file paths the test file imports for context, in order.\n")
	builder.WriteString("requirements lists every behavioral expectation as its own entry, numbered from 1.\n\n")
	builder.WriteString(beginMarker)
	builder.WriteString("\n")
	builder.WriteString(fileText)
	if !strings.HasSuffix(fileText, "\n") {
		builder.WriteString("\n")
	}
	builder.WriteString(endMarker)
	builder.WriteString("\n")
	return builder.String()
}
