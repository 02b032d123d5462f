package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestValidateCommandSuccess verifies validate accepts a well-formed config.
func TestValidateCommandSuccess(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--spec", specPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, err.String())
	}
	if err.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", err.String())
	}
	if !strings.Contains(out.String(), "Config OK") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}

// TestValidateCommandFailure verifies broken configs are reported.
func TestValidateCommandFailure(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, "version: 1\n")

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--spec", specPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	if !strings.Contains(err.String(), "Validation failed") {
		t.Fatalf("expected validation failure, got %q", err.String())
	}
	if !strings.Contains(err.String(), "agent.command") {
		t.Fatalf("expected field detail, got %q", err.String())
	}
}

// TestValidateCommandChecksTestFiles verifies listed files must exist
// inside the project root.
func TestValidateCommandChecksTestFiles(t *testing.T) {
	dir := t.TempDir()
	specPath := writeRunConfig(t, dir, runConfigBody)
	if err := os.WriteFile(filepath.Join(dir, "greeting.test.md"), []byte("say hi\n"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "suite"), 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	var out, stderr bytes.Buffer
	code := Run([]string{"validate", "--spec", specPath, "greeting.test.md"}, &out, &stderr)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, stderr.String())
	}

	cases := []struct {
		name string
		file string
		want string
	}{
		{name: "missing", file: "missing.test.md", want: "not found under"},
		{name: "directory", file: "suite", want: "is a directory"},
		{name: "escape", file: "../escape.test.md", want: "escapes project root"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out, stderr bytes.Buffer
			code := Run([]string{"validate", "--spec", specPath, tc.file}, &out, &stderr)
			if code != ExitError {
				t.Fatalf("expected exit %d, got %d", ExitError, code)
			}
			if !strings.Contains(stderr.String(), tc.want) {
				t.Fatalf("expected %q in stderr, got %q", tc.want, stderr.String())
			}
		})
	}
}

// TestValidateFindsConfigInParent verifies config discovery walks upward
// from the working directory.
func TestValidateFindsConfigInParent(t *testing.T) {
	dir := t.TempDir()
	writeRunConfig(t, dir, runConfigBody)
	nested := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("create nested dir: %v", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out, stderr bytes.Buffer
	code := Run([]string{"validate"}, &out, &stderr)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, stderr.String())
	}
	if !strings.Contains(out.String(), "Config OK") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}
