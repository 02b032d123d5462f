package config

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ScaffoldConfig is the starter .quorum.yml written by init. The scaffold
// carries a worked quorum (three runs, two must pass) so the defaults are
// visible rather than implied.
func ScaffoldConfig(outputDir string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "version: 1\noutput_dir: %q\n\n", outputDir); err != nil {
			return err
		}
		_, err := io.WriteString(w, `agent:
  command: "my-agent"
  args: ["--print"]
  stream: false
  timeout_seconds: 300

# The judge inherits the agent command when left blank.
judge:
  command: ""
  timeout_seconds: 120

defaults:
  runs: 3
  threshold: 66
  concurrency: 2

report:
  db_path: ""
`)
		return err
	})
}

// renderScaffoldConfig builds the scaffold YAML via the config component.
func renderScaffoldConfig(outputDir string) (string, error) {
	var builder strings.Builder
	if err := ScaffoldConfig(outputDir).Render(context.Background(), &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
