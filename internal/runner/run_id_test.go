package runner

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// TestFormatRunID verifies the timestamp-plus-suffix form.
func TestFormatRunID(t *testing.T) {
	timestamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	got := FormatRunID(timestamp, "deadbeef")
	if got != "20240102T030405Z-deadbeef" {
		t.Fatalf("unexpected run id: %q", got)
	}
}

// TestNewRunIDWithRand verifies deterministic generation from a seeded
// reader.
func TestNewRunIDWithRand(t *testing.T) {
	timestamp := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	reader := bytes.NewReader([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	got, err := NewRunIDWithRand(timestamp, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "20240607T080910Z-001122334455" {
		t.Fatalf("unexpected run id: %q", got)
	}
}

// TestNewRunIDWithRandErrors verifies nil and exhausted readers fail.
func TestNewRunIDWithRandErrors(t *testing.T) {
	if _, err := NewRunIDWithRand(time.Now(), nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if _, err := NewRunIDWithRand(time.Now(), bytes.NewReader([]byte{0x01})); err == nil {
		t.Fatalf("expected error for short reader")
	}
}

// TestNewRunIDIsSortable verifies generated IDs begin with the UTC
// timestamp so lexical order matches creation order.
func TestNewRunIDIsSortable(t *testing.T) {
	id, err := NewRunID()
	if err != nil {
		t.Fatalf("new run id: %v", err)
	}
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("expected timestamp-suffix form, got %q", id)
	}
	if _, err := time.Parse("20060102T150405Z", parts[0]); err != nil {
		t.Fatalf("timestamp segment invalid: %v", err)
	}
	if len(parts[1]) != runIDSuffixBytes*2 {
		t.Fatalf("unexpected suffix length: %q", parts[1])
	}
}
