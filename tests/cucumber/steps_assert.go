//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// theOutputListsCommands asserts the output contains expected command names.
func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

// theOutputContains asserts a fragment appears on stdout.
func (s *featureState) theOutputContains(fragment string) error {
	if !strings.Contains(s.stdout.String(), fragment) {
		return fmt.Errorf("expected %q in output, got %q", fragment, s.stdout.String())
	}
	return nil
}

// theExitCodeIsZero asserts the CLI succeeded.
func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected exit code 0, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

// theExitCodeIsNonZero asserts that the CLI returned an error code.
func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

// theErrorMessagePointsToInvalidField checks the error output for hints.
func (s *featureState) theErrorMessagePointsToInvalidField() error {
	errOutput := s.stderr.String()
	if !strings.Contains(errOutput, "version") {
		return fmt.Errorf("expected error to mention version, got %q", errOutput)
	}
	return nil
}

// aResultsFileIsRecorded asserts that a results.json landed under the
// configured output directory.
func (s *featureState) aResultsFileIsRecorded() error {
	if s.repoDir == "" {
		return fmt.Errorf("repository is not set up")
	}
	resultsDir := filepath.Join(s.repoDir, "quorum-results")
	found := false
	err := filepath.WalkDir(resultsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "results.json" {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk results dir: %w", err)
	}
	if !found {
		return fmt.Errorf("no results.json under %s", resultsDir)
	}
	return nil
}
