// Package extract turns a free-form prompt test file into a structured
// TestSpec through a single agent call. Extraction problems are authoring
// errors: they fail the file before any run is executed and are never
// retried.
package extract

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"quorum/internal/agent"
	"quorum/internal/fault"
	"quorum/internal/unwrap"
)

//go:embed reply_schema.json
var replySchemaJSON string

var replySchema = jsonschema.MustCompileString("reply_schema.json", replySchemaJSON)

// replyPreviewBytes bounds how much of a rejected reply lands in faults.
const replyPreviewBytes = 1000

// Params configures one extraction.
type Params struct {
	// FileText is the raw prompt test file.
	FileText string
	// ProjectRoot anchors relative import paths. Declared imports may
	// resolve outside it.
	ProjectRoot string
	// Agent is the invocation template; Input is filled in here.
	Agent agent.Request
}

// Extract calls the agent once and validates its reply into a TestSpec.
func Extract(ctx context.Context, invoker agent.Invoker, params Params) (TestSpec, error) {
	req := params.Agent
	req.Input = BuildPrompt(params.FileText)
	reply, err := invoker.Invoke(ctx, req)
	if err != nil {
		return TestSpec{}, fmt.Errorf("extraction call: %w", err)
	}

	value := unwrap.Structured(reply)
	if _, isString := value.StringValue(); isString {
		return TestSpec{}, fault.New(fault.Parse, "extract_reply_unstructured", "extraction reply is not structured data").
			With("reply", preview(reply))
	}
	if err := replySchema.Validate(value.ToInterface()); err != nil {
		return TestSpec{}, fault.Wrap(fault.Validation, "extract_reply_invalid", "extraction reply does not match the expected shape", err).
			With("reply", preview(reply))
	}

	spec := buildSpec(value)
	spec.Context, err = resolveImports(params.ProjectRoot, spec.ImportPaths)
	if err != nil {
		return TestSpec{}, err
	}
	if spec.SubjectPrompt == "" {
		return TestSpec{}, fault.New(fault.Validation, "subject_prompt_empty", "extracted subject prompt is empty").
			With("reply", preview(reply))
	}
	if spec.Context == "" {
		return TestSpec{}, fault.New(fault.Validation, "context_empty", "imports yielded no context text")
	}
	return spec, nil
}

// buildSpec walks the schema-validated reply into a TestSpec.
func buildSpec(value unwrap.Value) TestSpec {
	object, _ := value.ObjectValue()
	spec := TestSpec{}
	if s, ok := object["subjectPrompt"].StringValue(); ok {
		spec.SubjectPrompt = strings.TrimSpace(s)
	}
	if paths, ok := object["importPaths"].ArrayValue(); ok {
		spec.ImportPaths = make([]string, 0, len(paths))
		for _, p := range paths {
			if s, ok := p.StringValue(); ok && strings.TrimSpace(s) != "" {
				spec.ImportPaths = append(spec.ImportPaths, strings.TrimSpace(s))
			}
		}
	}
	if items, ok := object["requirements"].ArrayValue(); ok {
		spec.Requirements = make([]Requirement, 0, len(items))
		for _, item := range items {
			entry, ok := item.ObjectValue()
			if !ok {
				continue
			}
			id, _ := entry["id"].NumberValue()
			text, _ := entry["requirement"].StringValue()
			spec.Requirements = append(spec.Requirements, Requirement{
				ID:          int(id),
				Requirement: strings.TrimSpace(text),
			})
		}
	}
	return spec
}

// preview truncates a reply for fault context.
func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= replyPreviewBytes {
		return s
	}
	return s[:replyPreviewBytes] + "..."
}
