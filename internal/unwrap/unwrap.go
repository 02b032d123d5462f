// Package unwrap recovers usable text or structured data from agent output,
// tolerating the envelope shapes agents are known to produce: markdown code
// fences, a single {"result": ...} wrapper, and newline-delimited event
// streams.
package unwrap

import (
	"bufio"
	"strings"

	"quorum/internal/fault"
)

// Structured recovers a structured value from agent output. Markdown fences
// are stripped, then the text is parsed as JSON. An object holding a single
// "result" field is replaced by that field; when the field is itself a
// string it is re-parsed exactly once. Text that never parses comes back as
// a string value, which callers requiring structure must reject.
func Structured(text string) Value {
	candidate := stripFence(text)
	value, err := Parse(candidate)
	if err != nil {
		return Value{Kind: KindString, String: text}
	}
	object, ok := value.ObjectValue()
	if !ok || len(object) != 1 {
		return value
	}
	inner, found := object["result"]
	if !found {
		return value
	}
	if nested, ok := inner.StringValue(); ok {
		reparsed, err := Parse(nested)
		if err != nil {
			return Value{Kind: KindString, String: nested}
		}
		return reparsed
	}
	return inner
}

// Raw unwraps subject output. Text opening with a JSON object that carries a
// "result" field yields that field as text; everything else is returned
// verbatim. Prose is the expected case, so no fence stripping or deeper
// unwrapping happens here.
func Raw(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return text
	}
	value, err := Parse(trimmed)
	if err != nil {
		return text
	}
	object, ok := value.ObjectValue()
	if !ok {
		return text
	}
	inner, found := object["result"]
	if !found {
		return text
	}
	if s, ok := inner.StringValue(); ok {
		return s
	}
	return inner.JSON()
}

// Stream concatenates the text fragments of a newline-delimited event
// stream. Each line is an independent JSON record; records whose type field
// is "text" contribute the string at part.text, in stream order. Malformed
// lines are reported through warn and skipped. A stream yielding no
// fragments is a parse fault.
func Stream(text string, warn func(format string, args ...any)) (string, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out strings.Builder
	fragments := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		value, err := Parse(line)
		if err != nil {
			warn("skipping malformed stream line: %v", err)
			continue
		}
		record, ok := value.ObjectValue()
		if !ok {
			warn("skipping non-object stream line")
			continue
		}
		kind, ok := record["type"].StringValue()
		if !ok || kind != "text" {
			continue
		}
		part, ok := record["part"].ObjectValue()
		if !ok {
			warn("skipping text record without part object")
			continue
		}
		fragment, ok := part["text"].StringValue()
		if !ok {
			warn("skipping text record without part.text string")
			continue
		}
		out.WriteString(fragment)
		fragments++
	}
	if err := scanner.Err(); err != nil {
		return "", fault.Wrap(fault.Parse, "stream_read", "reading event stream", err)
	}
	if fragments == 0 {
		return "", fault.New(fault.Parse, "stream_empty", "event stream produced no text fragments")
	}
	return out.String(), nil
}

// stripFence removes one layer of markdown code-fence wrapping. The opening
// fence may carry a language tag; the closing fence must start a line.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	idx := strings.Index(trimmed, "\n")
	if idx == -1 {
		return trimmed
	}
	body := trimmed[idx+1:]
	end := strings.LastIndex(body, "```")
	if end == -1 {
		return trimmed
	}
	if end > 0 && body[end-1] != '\n' {
		return trimmed
	}
	return strings.TrimSpace(body[:end])
}
