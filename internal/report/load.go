// Package report loads recorded runs and renders them as HTML.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quorum/internal/runner"
	"quorum/internal/vcs"
)

// LoadResults reads a results.json file.
func LoadResults(path string) (runner.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.Results{}, err
	}
	var results runner.Results
	if err := json.Unmarshal(data, &results); err != nil {
		return runner.Results{}, err
	}
	return results, nil
}

// ResolveRun locates a recorded run by commit, ref, or run id. Refs are
// expanded through git when a project root is available; commit lookups pick
// the latest run for that commit. The returned string is the run directory.
func ResolveRun(outputDir, projectRoot, ref string) (runner.Results, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return runner.Results{}, "", fmt.Errorf("run ref is required")
	}
	commit := ref
	if projectRoot != "" {
		if resolved, err := vcs.ResolveRef(context.Background(), projectRoot, ref); err == nil {
			commit = resolved
		}
	}
	commitDir := filepath.Join(outputDir, commit)
	if info, err := os.Stat(commitDir); err == nil && info.IsDir() {
		runDir, err := findLatestRunDir(commitDir)
		if err != nil {
			return runner.Results{}, "", err
		}
		results, err := LoadResults(filepath.Join(runDir, "results.json"))
		return results, runDir, err
	}
	runDir, err := findRunByID(outputDir, ref)
	if err != nil {
		return runner.Results{}, "", err
	}
	results, err := LoadResults(filepath.Join(runDir, "results.json"))
	return results, runDir, err
}

// findLatestRunDir picks the newest run under a commit directory. Run ids
// start with a UTC timestamp, so the lexicographic maximum is the newest.
func findLatestRunDir(commitDir string) (string, error) {
	entries, err := os.ReadDir(commitDir)
	if err != nil {
		return "", err
	}
	runIDs := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			runIDs = append(runIDs, entry.Name())
		}
	}
	if len(runIDs) == 0 {
		return "", fmt.Errorf("no runs found in %s", commitDir)
	}
	sort.Strings(runIDs)
	return filepath.Join(commitDir, runIDs[len(runIDs)-1]), nil
}

func findRunByID(outputDir, runID string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		runDir := filepath.Join(outputDir, entry.Name(), runID)
		if info, err := os.Stat(runDir); err == nil && info.IsDir() {
			return runDir, nil
		}
	}
	return "", fmt.Errorf("run %s not found", runID)
}
