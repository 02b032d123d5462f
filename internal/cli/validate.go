package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"quorum/internal/config"
	"quorum/internal/pathguard"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		specPath := flags.String("spec", "", "Path to config file (default: search for .quorum.yml)")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		resolvedSpec, err := resolveSpecPath(*specPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}

		cfg, err := config.Load(resolvedSpec)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}

		projectRoot := resolveProjectRoot(cfg.ProjectRoot, resolvedSpec)
		failed := false
		for _, testFile := range flags.Args() {
			resolved, err := pathguard.Resolve(projectRoot, testFile)
			if err != nil {
				fmt.Fprintf(stderr, "%s: %v\n", testFile, err)
				failed = true
				continue
			}
			info, err := os.Stat(resolved)
			if err != nil {
				fmt.Fprintf(stderr, "%s: not found under %s\n", testFile, projectRoot)
				failed = true
				continue
			}
			if info.IsDir() {
				fmt.Fprintf(stderr, "%s: is a directory\n", testFile)
				failed = true
			}
		}
		if failed {
			return ExitError
		}

		fmt.Fprintln(stdout, "Config OK")
		return ExitOK
	}
}
