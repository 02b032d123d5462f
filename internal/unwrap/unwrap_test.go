package unwrap

import (
	"fmt"
	"strings"
	"testing"

	"quorum/internal/fault"
)

// TestStructuredParsesPlainObject verifies direct JSON objects parse.
func TestStructuredParsesPlainObject(t *testing.T) {
	value := Structured(`{"passed": true, "score": 85}`)
	object, ok := value.ObjectValue()
	if !ok {
		t.Fatalf("expected object, got kind %d", value.Kind)
	}
	if passed, _ := object["passed"].BoolValue(); !passed {
		t.Fatalf("expected passed true")
	}
	if score, _ := object["score"].NumberValue(); score != 85 {
		t.Fatalf("expected score 85, got %v", score)
	}
}

// TestStructuredStripsMarkdownFence verifies fenced JSON parses identically.
func TestStructuredStripsMarkdownFence(t *testing.T) {
	plain := Structured(`{"a": 1}`)
	fenced := Structured("```json\n{\"a\": 1}\n```")
	if fenced.JSON() != plain.JSON() {
		t.Fatalf("expected %s, got %s", plain.JSON(), fenced.JSON())
	}
}

// TestStructuredReturnsProseAsString verifies non-JSON text comes back as-is.
func TestStructuredReturnsProseAsString(t *testing.T) {
	value := Structured("The subject prompt behaves correctly.")
	s, ok := value.StringValue()
	if !ok {
		t.Fatalf("expected string value")
	}
	if s != "The subject prompt behaves correctly." {
		t.Fatalf("unexpected string %q", s)
	}
}

// TestStructuredUnwrapsSingleResultField verifies the result envelope.
func TestStructuredUnwrapsSingleResultField(t *testing.T) {
	value := Structured(`{"result": {"ok": true}}`)
	object, ok := value.ObjectValue()
	if !ok {
		t.Fatalf("expected inner object")
	}
	if ok, _ := object["ok"].BoolValue(); !ok {
		t.Fatalf("expected ok true")
	}
}

// TestStructuredReparsesStringResultOnce verifies one re-parse level.
func TestStructuredReparsesStringResultOnce(t *testing.T) {
	value := Structured(`{"result": "{\"n\": 2}"}`)
	object, ok := value.ObjectValue()
	if !ok {
		t.Fatalf("expected object after re-parse")
	}
	if n, _ := object["n"].NumberValue(); n != 2 {
		t.Fatalf("expected n 2, got %v", n)
	}
}

// TestStructuredDoesNotUnwrapTwice verifies deeper nesting stays wrapped.
func TestStructuredDoesNotUnwrapTwice(t *testing.T) {
	value := Structured(`{"result": {"result": {"deep": 1}}}`)
	object, ok := value.ObjectValue()
	if !ok {
		t.Fatalf("expected object")
	}
	if _, found := object["result"]; !found {
		t.Fatalf("expected inner result field to survive")
	}
}

// TestStructuredKeepsMultiFieldObjects verifies objects with siblings of
// result are not unwrapped.
func TestStructuredKeepsMultiFieldObjects(t *testing.T) {
	value := Structured(`{"result": "x", "other": 1}`)
	object, ok := value.ObjectValue()
	if !ok {
		t.Fatalf("expected object")
	}
	if len(object) != 2 {
		t.Fatalf("expected both fields, got %d", len(object))
	}
}

// TestRawReturnsProseUnchanged verifies prose passes through untouched.
func TestRawReturnsProseUnchanged(t *testing.T) {
	text := "Hello there. {not json"
	if got := Raw(text); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

// TestRawUnwrapsResultField verifies the result envelope in raw mode.
func TestRawUnwrapsResultField(t *testing.T) {
	if got := Raw(`{"result": "plain answer"}`); got != "plain answer" {
		t.Fatalf("expected unwrapped answer, got %q", got)
	}
}

// TestRawIgnoresObjectsWithoutResult verifies foreign objects pass through.
func TestRawIgnoresObjectsWithoutResult(t *testing.T) {
	text := `{"message": "hi"}`
	if got := Raw(text); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

// TestRawSkipsFenceStripping verifies raw mode leaves fenced text alone.
func TestRawSkipsFenceStripping(t *testing.T) {
	text := "```json\n{\"result\": \"x\"}\n```"
	if got := Raw(text); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

// TestRawRendersStructuredResult verifies non-string results render as JSON.
func TestRawRendersStructuredResult(t *testing.T) {
	if got := Raw(`{"result": [1, 2]}`); got != "[1,2]" {
		t.Fatalf("expected [1,2], got %q", got)
	}
}

// TestStreamConcatenatesTextFragments verifies ordered fragment assembly.
func TestStreamConcatenatesTextFragments(t *testing.T) {
	stream := strings.Join([]string{
		`{"type": "text", "part": {"text": "Hello "}}`,
		`{"type": "tool", "part": {"name": "read"}}`,
		`{"type": "text", "part": {"text": "world"}}`,
	}, "\n")
	got, err := Stream(stream, nil)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got != "Hello world" {
		t.Fatalf("expected %q, got %q", "Hello world", got)
	}
}

// TestStreamSkipsMalformedLines verifies bad lines warn but do not fail.
func TestStreamSkipsMalformedLines(t *testing.T) {
	stream := strings.Join([]string{
		`{"type": "text", "part": {"text": "ok"}}`,
		`{broken`,
		`not json at all`,
	}, "\n")
	warnings := 0
	got, err := Stream(stream, func(format string, args ...any) {
		warnings++
		_ = fmt.Sprintf(format, args...)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if warnings != 2 {
		t.Fatalf("expected 2 warnings, got %d", warnings)
	}
}

// TestStreamWithoutFragmentsIsParseFault verifies the empty-stream fault.
func TestStreamWithoutFragmentsIsParseFault(t *testing.T) {
	_, err := Stream(`{"type": "tool", "part": {}}`, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !fault.IsKind(err, fault.Parse) {
		t.Fatalf("expected parse fault, got %v", err)
	}
}

// TestParseRejectsTrailingGarbage verifies strict top-level parsing.
func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse(`{"a": 1} trailing`); err == nil {
		t.Fatalf("expected error")
	}
}

// TestValueRoundTripThroughInterface verifies ToInterface fidelity.
func TestValueRoundTripThroughInterface(t *testing.T) {
	value, err := Parse(`{"s": "x", "n": 1.5, "b": false, "z": null, "a": [1, "two"]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := value.JSON(); got != `{"a":[1,"two"],"b":false,"n":1.5,"s":"x","z":null}` {
		t.Fatalf("unexpected rendering %s", got)
	}
}
