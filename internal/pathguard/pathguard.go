// Package pathguard confines test file access to the project root.
package pathguard

import (
	"os"
	"path/filepath"
	"strings"

	"quorum/internal/fault"
)

// Resolve returns the absolute location of path inside root. Paths that
// resolve outside root are rejected with a security fault. Relative paths
// are taken relative to root.
func Resolve(root, path string) (string, error) {
	if root == "" {
		return "", fault.New(fault.Validation, "project_root_missing", "project root is required")
	}
	cleaned := filepath.Clean(path)
	var abs string
	if filepath.IsAbs(cleaned) {
		abs = cleaned
	} else {
		abs = filepath.Join(root, cleaned)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fault.Wrap(fault.Security, "path_resolve", "resolving test file path", err).With("path", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fault.Newf(fault.Security, "path_escape", "test file path escapes project root: %s", path).With("path", path)
	}
	return abs, nil
}
