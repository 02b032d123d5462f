package verdict

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Verdict is a judge's normalized opinion for one run and requirement.
// Score is always inside [0, 100].
type Verdict struct {
	Passed   bool
	Actual   string
	Expected string
	Score    float64
	Extra    map[string]string
}

// Normalize applies verdict defaults and clamps the score into [0, 100].
// Non-finite scores collapse to the nearest bound.
func Normalize(b Block) Verdict {
	score := b.Score
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Verdict{
		Passed:   b.Passed,
		Actual:   b.Actual,
		Expected: b.Expected,
		Score:    score,
		Extra:    b.Extra,
	}
}

// Format renders the verdict as a diagnostic block. Parsing the result
// yields the same passed, actual, expected, and score.
func (v Verdict) Format() string {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.WriteString("passed: ")
	b.WriteString(strconv.FormatBool(v.Passed))
	b.WriteString("\n")
	b.WriteString("actual: ")
	b.WriteString(formatValue(v.Actual))
	b.WriteString("\n")
	b.WriteString("expected: ")
	b.WriteString(formatValue(v.Expected))
	b.WriteString("\n")
	b.WriteString("score: ")
	b.WriteString(strconv.FormatFloat(v.Score, 'f', -1, 64))
	b.WriteString("\n")
	if len(v.Extra) > 0 {
		keys := make([]string, 0, len(v.Extra))
		for k := range v.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(formatValue(v.Extra[k]))
			b.WriteString("\n")
		}
	}
	b.WriteString(delimiter)
	return b.String()
}

// formatValue flattens newlines and quotes the value so the block stays
// line-oriented. Values already containing double quotes are left bare.
func formatValue(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.Contains(s, `"`) {
		return s
	}
	return `"` + s + `"`
}
