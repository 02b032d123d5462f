package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const sampleTestFile = `# Greeting prompt

## Prompt

Say hello to the user and mention one thing you can help with.

## Requirements

- The reply greets the user.
- The reply offers help with something concrete.
`

// Scaffold writes a starter config and a sample test file. Existing files
// are never overwritten.
func Scaffold(configPath, outputDir string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	baseDir := filepath.Dir(configPath)
	testsDir := filepath.Join(baseDir, "quorum-tests")
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return fmt.Errorf("create tests dir: %w", err)
	}

	testPath := filepath.Join(testsDir, "greeting.test.md")
	if info, err := os.Stat(testPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("test path %q is a directory", testPath)
		}
		return fmt.Errorf("test file already exists at %q", testPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat test file: %w", err)
	}

	content, err := renderScaffoldConfig(outputDir)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.WriteFile(testPath, []byte(sampleTestFile), 0o644); err != nil {
		return fmt.Errorf("write test file: %w", err)
	}
	return nil
}
