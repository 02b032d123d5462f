//go:build !unix

package agent

import "os/exec"

// setProcessGroup is a no-op without process group support.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup force-kills the agent process.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
