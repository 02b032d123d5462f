package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"quorum/internal/config"
)

// resolveSpecPath normalizes a config path or finds one from CWD upward.
func resolveSpecPath(specPath string) (string, error) {
	if strings.TrimSpace(specPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(specPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// resolveProjectRoot anchors the configured project root at the config
// file's directory.
func resolveProjectRoot(projectRoot, configPath string) string {
	configDir := config.ProjectRootFromConfigPath(configPath)
	root := strings.TrimSpace(projectRoot)
	if root == "" {
		return configDir
	}
	if !filepath.IsAbs(root) {
		return filepath.Join(configDir, root)
	}
	return root
}

// resolveInputDir determines the results directory and project root, from an
// explicit input dir or from the config.
func resolveInputDir(inputDir, specPath string) (string, string, error) {
	if inputDir != "" {
		abs, err := filepath.Abs(inputDir)
		if err != nil {
			return "", "", err
		}
		return abs, "", nil
	}
	resolvedSpec, err := resolveSpecPath(specPath)
	if err != nil {
		return "", "", err
	}
	cfg, err := config.Load(resolvedSpec)
	if err != nil {
		return "", "", err
	}
	projectRoot := resolveProjectRoot(cfg.ProjectRoot, resolvedSpec)
	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(projectRoot, outputDir)
	}
	return outputDir, projectRoot, nil
}
