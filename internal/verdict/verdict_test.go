package verdict

import (
	"math"
	"testing"
)

// TestNormalizeClampsScore verifies out-of-range scores are clamped.
func TestNormalizeClampsScore(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{42.25, 42.25},
		{100, 100},
		{250, 100},
		{math.NaN(), 0},
		{math.Inf(1), 100},
	}
	for _, c := range cases {
		got := Normalize(Block{Score: c.in}).Score
		if got != c.want {
			t.Fatalf("clamp %v: expected %v, got %v", c.in, c.want, got)
		}
	}
}

// TestNormalizeDefaults verifies an empty block yields the default verdict.
func TestNormalizeDefaults(t *testing.T) {
	v := Normalize(Block{})
	if v.Passed || v.Actual != "" || v.Expected != "" || v.Score != 0 {
		t.Fatalf("unexpected defaults %+v", v)
	}
}

// TestFormatRoundTrip verifies formatting then parsing preserves the verdict.
func TestFormatRoundTrip(t *testing.T) {
	original := Verdict{
		Passed:   true,
		Actual:   "the reply greeted Alice by name",
		Expected: "a greeting using the caller's name",
		Score:    87.5,
		Extra:    map[string]string{"confidence": "high"},
	}
	block, err := ParseBlock(original.Format())
	if err != nil {
		t.Fatalf("parse formatted block: %v", err)
	}
	parsed := Normalize(block)
	if parsed.Passed != original.Passed {
		t.Fatalf("passed mismatch")
	}
	if parsed.Actual != original.Actual {
		t.Fatalf("actual mismatch: %q", parsed.Actual)
	}
	if parsed.Expected != original.Expected {
		t.Fatalf("expected mismatch: %q", parsed.Expected)
	}
	if parsed.Score != original.Score {
		t.Fatalf("score mismatch: %v", parsed.Score)
	}
	if parsed.Extra["confidence"] != "high" {
		t.Fatalf("extra mismatch: %v", parsed.Extra)
	}
}

// TestFormatRoundTripWithNewlines verifies multi-line summaries flatten to
// one line and still round-trip.
func TestFormatRoundTripWithNewlines(t *testing.T) {
	v := Verdict{Actual: "line one\nline two", Score: 10}
	block, err := ParseBlock(v.Format())
	if err != nil {
		t.Fatalf("parse formatted block: %v", err)
	}
	if Normalize(block).Actual != "line one line two" {
		t.Fatalf("unexpected actual %q", block.Actual)
	}
}
