package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"quorum/internal/spec"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config for correctness. baseDir anchors
// relative paths named by the config, usually the config file's directory.
func Validate(cfg *spec.Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		add("output_dir", "is required")
	}

	if strings.TrimSpace(cfg.Agent.Command) == "" {
		add("agent.command", "is required")
	}
	if cfg.Agent.TimeoutSeconds < 0 {
		add("agent.timeout_seconds", "must be >= 0")
	}
	if cfg.Judge.TimeoutSeconds < 0 {
		add("judge.timeout_seconds", "must be >= 0")
	}

	if cfg.Defaults.Runs < 1 {
		add("defaults.runs", "must be >= 1")
	}
	if cfg.Defaults.Threshold != nil {
		threshold := *cfg.Defaults.Threshold
		if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			add("defaults.threshold", "must be a finite number")
		} else if threshold < 0 || threshold > 100 {
			add("defaults.threshold", "must be between 0 and 100")
		}
	}
	if cfg.Defaults.Concurrency < 1 {
		add("defaults.concurrency", "must be >= 1")
	}

	if baseDir == "" {
		baseDir = "."
	}
	if root := strings.TrimSpace(cfg.ProjectRoot); root != "" {
		rootPath := root
		if !filepath.IsAbs(rootPath) {
			rootPath = filepath.Join(baseDir, rootPath)
		}
		info, err := os.Stat(rootPath)
		if err != nil {
			add("project_root", fmt.Sprintf("path not found at %q", root))
		} else if !info.IsDir() {
			add("project_root", fmt.Sprintf("path %q is not a directory", root))
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
