// Package verdict parses the delimited diagnostic block judges reply with
// and normalizes it into a Verdict.
package verdict

import (
	"strconv"
	"strings"

	"quorum/internal/fault"
)

// delimiter bounds a diagnostic block when it is alone on a line.
const delimiter = "---"

// Block is one parsed diagnostic block before normalization. Score is kept
// as parsed; range clamping happens in Normalize.
type Block struct {
	Passed   bool
	Actual   string
	Expected string
	Score    float64
	Extra    map[string]string
}

// ParseBlock extracts the last diagnostic block from judge output. A block
// is bounded by lines containing only three dashes, matched at line
// boundaries so surrounding prose cannot satisfy the anchor, and must carry
// at least one of the contract fields (passed, actual, expected, score).
// Output without such a block is a parse fault carrying the raw text.
func ParseBlock(text string) (Block, error) {
	lines := strings.Split(text, "\n")
	marks := make([]int, 0, 4)
	for i, line := range lines {
		if strings.TrimSpace(line) == delimiter {
			marks = append(marks, i)
		}
	}
	for i := len(marks) - 1; i >= 1; i-- {
		block, recognized, err := parseCandidate(lines[marks[i-1]+1 : marks[i]])
		if !recognized {
			continue
		}
		if err != nil {
			return Block{}, err
		}
		return block, nil
	}
	return Block{}, fault.New(fault.Parse, "block_missing", "no diagnostic block in judge output").
		With("output", text)
}

// parseCandidate reads the key: value lines between two delimiters.
// recognized reports whether any contract field was present.
func parseCandidate(lines []string) (Block, bool, error) {
	block := Block{}
	recognized := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		switch key {
		case "passed":
			recognized = true
			block.Passed = value == "true"
		case "actual":
			recognized = true
			block.Actual = value
		case "expected":
			recognized = true
			block.Expected = value
		case "score":
			recognized = true
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Block{}, true, fault.Newf(fault.Parse, "score_invalid", "diagnostic block score is not a number: %q", value)
			}
			block.Score = number
		default:
			if block.Extra == nil {
				block.Extra = make(map[string]string)
			}
			block.Extra[key] = value
		}
	}
	return block, recognized, nil
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
