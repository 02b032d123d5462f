package extract

import (
	"os"
	"path/filepath"
	"strings"

	"quorum/internal/fault"
)

// resolveImports reads every declared import relative to root and joins the
// contents blank-line separated. An unreadable import is an authoring error
// carrying the underlying filesystem error.
func resolveImports(root string, paths []string) (string, error) {
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		resolved := path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(root, resolved)
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return "", fault.Wrap(fault.Validation, "import_unreadable", "reading import file", err).
				With("path", path)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}
