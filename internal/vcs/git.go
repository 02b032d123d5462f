// Package vcs reads git identity for the project under test so results
// can be filed per commit.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Metadata captures repository identity and dirty state.
type Metadata struct {
	Name   string
	VCS    string
	Commit string
	Branch string
	Dirty  bool
}

// FallbackCommit labels runs on directories that are not git repositories.
// Output paths require a commit segment, so it must stay non-empty.
const FallbackCommit = "untracked"

// gitRunner executes git commands for repository metadata.
type gitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// execGitRunner invokes git via the system binary.
type execGitRunner struct{}

// Run executes a git command and returns trimmed stdout.
func (execGitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return "", fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client coordinates git operations and allows dependency injection.
type Client struct {
	runner gitRunner
}

// NewClient constructs a git client with an optional runner override.
func NewClient(runner gitRunner) Client {
	if runner == nil {
		runner = execGitRunner{}
	}
	return Client{runner: runner}
}

var defaultClient = NewClient(nil)

// Describe reads metadata for a project root, falling back to a synthetic
// identity when the root is not inside a git repository.
func Describe(ctx context.Context, root string) Metadata {
	return defaultClient.Describe(ctx, root)
}

// ResolveRef resolves a ref name to a commit hash.
func ResolveRef(ctx context.Context, root, ref string) (string, error) {
	return defaultClient.ResolveRef(ctx, root, ref)
}

// DiscoverRoot returns the git toplevel containing dir.
func DiscoverRoot(ctx context.Context, dir string) (string, error) {
	return defaultClient.DiscoverRoot(ctx, dir)
}

// Metadata reads git metadata for a project root.
func (c Client) Metadata(ctx context.Context, root string) (Metadata, error) {
	dir := strings.TrimSpace(root)
	if dir == "" {
		return Metadata{}, fmt.Errorf("project root is empty")
	}
	top, err := c.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Metadata{}, fmt.Errorf("discover git root: %w", err)
	}
	commit, err := c.runner.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return Metadata{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	branch, err := c.runner.Run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Metadata{}, fmt.Errorf("resolve branch: %w", err)
	}
	status, err := c.runner.Run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return Metadata{}, fmt.Errorf("check dirty state: %w", err)
	}
	return Metadata{
		Name:   filepath.Base(top),
		VCS:    "git",
		Commit: commit,
		Branch: branch,
		Dirty:  strings.TrimSpace(status) != "",
	}, nil
}

// ResolveRef resolves a branch, tag, or abbreviated hash to a full commit.
func (c Client) ResolveRef(ctx context.Context, root, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("ref is empty")
	}
	commit, err := c.runner.Run(ctx, root, "rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("resolve ref %q: %w", ref, err)
	}
	return commit, nil
}

// DiscoverRoot returns the git toplevel containing dir, or an error when
// dir is not inside a work tree.
func (c Client) DiscoverRoot(ctx context.Context, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	top, err := c.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("discover git root: %w", err)
	}
	return top, nil
}

// Describe reads metadata and never fails: outside git it labels the run
// with the fallback commit so output paths stay well-formed.
func (c Client) Describe(ctx context.Context, root string) Metadata {
	meta, err := c.Metadata(ctx, root)
	if err == nil {
		return meta
	}
	return Metadata{
		Name:   filepath.Base(strings.TrimSpace(root)),
		VCS:    "none",
		Commit: FallbackCommit,
	}
}
