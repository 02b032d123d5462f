//go:build cucumber
// +build cucumber

package cucumber

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"quorum/internal/cli"
)

// iRunCommand executes a CLI command for the scenario.
func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "quorum" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

// aScriptedAgentThatPasses installs an agent script whose judge verdicts
// all pass.
func (s *featureState) aScriptedAgentThatPasses() error {
	return s.writeAgentScript("true", "95")
}

// aScriptedAgentThatFails installs an agent script whose judge verdicts
// all fail.
func (s *featureState) aScriptedAgentThatFails() error {
	return s.writeAgentScript("false", "10")
}

// writeAgentScript writes a shell agent that answers extraction, subject,
// and judge calls from its stdin instruction.
func (s *featureState) writeAgentScript(passed, score string) error {
	if s.repoDir == "" {
		return fmt.Errorf("repository is not set up")
	}
	script := `#!/bin/sh
input=$(cat)
case "$input" in
*"Extract a test specification"*)
  printf '%s\n' '{"subjectPrompt": "Say hello to the user.", "importPaths": ["context.md"], "requirements": [{"id": 1, "requirement": "The reply greets the user."}]}'
  ;;
*"You are judging one run"*)
  printf '%s\n' 'Looked for a greeting in the run output.'
  printf '%s\n' '---'
  printf '%s\n' 'passed: ` + passed + `'
  printf '%s\n' 'actual: "checked the reply"'
  printf '%s\n' 'expected: "a greeting"'
  printf '%s\n' 'score: ` + score + `'
  printf '%s\n' '---'
  ;;
*)
  printf '%s\n' 'Hello! Happy to help.'
  ;;
esac
`
	scriptPath := filepath.Join(s.repoDir, "agent.sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		return fmt.Errorf("write agent script: %w", err)
	}
	return nil
}

// aTestFile writes a prompt test file at the given repo-relative path.
func (s *featureState) aTestFile(path string) error {
	if s.repoDir == "" {
		return fmt.Errorf("repository is not set up")
	}
	target := filepath.Join(s.repoDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create test dir: %w", err)
	}
	contents := `# Greeting prompt

Imports: context.md

## Prompt

Say hello to the user.

## Requirements

- The reply greets the user.
`
	if err := os.WriteFile(target, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write test file: %w", err)
	}
	return nil
}

// initGitRepo initializes a git repo with one commit.
func (s *featureState) initGitRepo(dir string) error {
	if err := s.runGit(dir, "-c", "init.defaultBranch=main", "init"); err != nil {
		return err
	}
	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("fixture"), 0o644); err != nil {
		return fmt.Errorf("write README: %w", err)
	}
	if err := s.runGit(dir, "add", "."); err != nil {
		return err
	}
	if err := s.runGit(dir, "commit", "-m", "initial"); err != nil {
		return err
	}
	return nil
}

// runGit executes git commands in a repo with fixed author metadata.
func (s *featureState) runGit(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %v (%s)", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return nil
}
