//go:build linux || darwin

package judge

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

func termination(ps *os.ProcessState) Termination {
	t := Termination{ExitCode: ps.ExitCode()}
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return t
	}
	sig := ws.Signal()
	t.Signal = unix.SignalName(sig)
	if t.Signal == "" {
		t.Signal = sig.String()
	}
	t.CPUExceeded = sig == unix.SIGXCPU
	return t
}
