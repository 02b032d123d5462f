//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"os"
	"path/filepath"
)

// aGitRepositoryWithValidConfig sets up a temp repo with a valid config
// and chdirs into it.
func (s *featureState) aGitRepositoryWithValidConfig() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "quorum-feature-*")
	if err != nil {
		return fmt.Errorf("create temp repo: %w", err)
	}
	s.repoDir = dir
	s.configPath = filepath.Join(dir, ".quorum.yml")

	if err := s.writeConfig(validConfigYAML()); err != nil {
		return err
	}
	contextPath := filepath.Join(dir, "context.md")
	if err := os.WriteFile(contextPath, []byte("The assistant speaks to end users.\n"), 0o644); err != nil {
		return fmt.Errorf("write context file: %w", err)
	}
	if err := s.initGitRepo(dir); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

// theConfigIsInvalid replaces the config with an unsupported version.
func (s *featureState) theConfigIsInvalid() error {
	if err := s.aGitRepositoryWithValidConfig(); err != nil {
		return err
	}
	return s.writeConfig(invalidConfigYAML())
}

// writeConfig persists configuration content to the repo config path.
func (s *featureState) writeConfig(contents string) error {
	if s.configPath == "" {
		return fmt.Errorf("config path is not set")
	}
	if err := os.WriteFile(s.configPath, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// validConfigYAML returns a minimal valid config for cucumber tests. The
// agent script lives at the repo root so the relative command resolves
// from the scenario's working directory.
func validConfigYAML() string {
	return `version: 1
output_dir: "./quorum-results"

agent:
  command: "./agent.sh"
  timeout_seconds: 30

defaults:
  runs: 1
  threshold: 100
  concurrency: 1
`
}

// invalidConfigYAML returns a config with an unsupported version.
func invalidConfigYAML() string {
	return `version: 2
output_dir: "./quorum-results"

agent:
  command: "./agent.sh"
`
}
