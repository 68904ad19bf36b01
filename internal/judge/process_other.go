//go:build !linux && !darwin

package judge

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func termination(ps *os.ProcessState) Termination {
	return Termination{ExitCode: ps.ExitCode()}
}
