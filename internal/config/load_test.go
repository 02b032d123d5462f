package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quorum/internal/fault"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesNormalization(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `version: 1
agent:
  command: my-agent
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.OutputDir != DefaultOutputDir {
		t.Fatalf("expected default output dir, got %q", cfg.OutputDir)
	}
	if cfg.Judge.Command != "my-agent" {
		t.Fatalf("expected judge to inherit agent, got %q", cfg.Judge.Command)
	}
	if cfg.Defaults.Runs != 1 || cfg.Defaults.Threshold == nil || *cfg.Defaults.Threshold != 100 {
		t.Fatalf("expected plan defaults, got %+v", cfg.Defaults)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `version: 1
agent:
  command: my-agent
defaults:
  runs: 0
  runs_is_typo: true
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected load to fail on unknown field")
	}
}

func TestLoadRejectsBadPlanValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `version: 1
agent:
  command: my-agent
defaults:
  threshold: 250
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "defaults.threshold") {
		t.Fatalf("expected threshold issue, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if fault.CodeOf(err) != "config_unreadable" {
		t.Fatalf("expected config_unreadable, got %v", err)
	}
}

func TestLoadValidatesProjectRootAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "svc"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := writeConfig(t, dir, `version: 1
project_root: svc
agent:
  command: my-agent
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.ProjectRoot != "svc" {
		t.Fatalf("expected project_root kept as written, got %q", cfg.ProjectRoot)
	}
}
