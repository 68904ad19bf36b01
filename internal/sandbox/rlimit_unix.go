//go:build linux || darwin

package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"runtime"
	"runtime/debug"

	"github.com/sempr/psutil-go/pkg/constants"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"
)

// ApplyLimits sets the limits on the calling process. RLIMIT_NPROC comes
// last so nothing after it needs to fork.
func ApplyLimits(limit Limitation) error {
	setRlimit := func(resource int, name string, cur, max uint64) error {
		rlim := unix.Rlimit{Cur: cur, Max: max}
		if err := unix.Setrlimit(resource, &rlim); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
		return nil
	}

	cpu := limit.CPUSeconds()
	if err := setRlimit(unix.RLIMIT_CPU, "RLIMIT_CPU", cpu, cpu+1); err != nil {
		return err
	}
	if as, ok := limit.AddressSpace(); ok {
		if err := setRlimit(unix.RLIMIT_AS, "RLIMIT_AS", as, as); err != nil {
			return err
		}
	}
	return setRlimit(unix.RLIMIT_NPROC, "RLIMIT_NPROC", 1, 1)
}

type rlimitLimiter struct {
	helper []string
}

// New returns a Limiter that runs children through helperPath. helperArgs
// are inserted before the HelperCommand subcommand.
func New(helperPath string, helperArgs ...string) Limiter {
	return &rlimitLimiter{helper: append([]string{helperPath}, helperArgs...)}
}

func (l *rlimitLimiter) Start(cmd *exec.Cmd, limit Limitation) error {
	if cmd.Err != nil {
		return &StartError{Stage: "lookup", Err: cmd.Err}
	}
	target := append([]string{cmd.Path}, cmd.Args[1:]...)
	cmd.Path = l.helper[0]
	cmd.Args = helperArgv(l.helper, limit, target)

	r, w, err := os.Pipe()
	if err != nil {
		return &StartError{Stage: "pipe", Err: err}
	}
	defer r.Close()
	cmd.ExtraFiles = append([]*os.File{w}, cmd.ExtraFiles...)

	err = cmd.Start()
	w.Close()
	if err != nil {
		return &StartError{Stage: "spawn", Err: err}
	}

	// 管道在 exec 成功时关闭，读到 EOF 且内容为空表示目标程序已经运行
	status, err := io.ReadAll(r)
	if err != nil {
		return l.abort(cmd, &StartError{Stage: "status", Err: err})
	}
	if len(bytes.TrimSpace(status)) == 0 {
		return nil
	}

	var failure models.HelperFailure
	if err := json.Unmarshal(status, &failure); err != nil {
		return l.abort(cmd, &StartError{Stage: "status", Err: fmt.Errorf("bad helper status %q: %w", status, err)})
	}
	return l.abort(cmd, &StartError{Stage: failure.Stage, Err: errors.New(failure.Error)})
}

// abort reaps a helper that failed before exec.
func (l *rlimitLimiter) abort(cmd *exec.Cmd, err error) error {
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	return err
}

// ChildMain is the body of the limit-exec helper. It never returns on
// success; otherwise it reports on fd 3 and returns the exit code.
func ChildMain(args []string) int {
	runtime.LockOSThread()
	// 限制生效后不能再创建线程或申请大块内存
	debug.SetGCPercent(-1)

	status := os.NewFile(uintptr(constants.StatusFD), "status")
	unix.CloseOnExec(constants.StatusFD)

	report := func(stage string, err error, code int) int {
		failure := models.HelperFailure{Stage: stage, Error: err.Error()}
		if status == nil || json.NewEncoder(status).Encode(&failure) != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", HelperCommand, stage, err)
		}
		return code
	}

	var ha models.HelperArgs
	flags := pflag.NewFlagSet(HelperCommand, pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(io.Discard)
	flags.Float64Var(&ha.TimeSec, "time", constants.DefaultTimeLimit, "cpu time limit in seconds")
	flags.Uint64Var(&ha.MemoryMB, "memory", 0, "address space limit in MB, 0 for none")
	if err := flags.Parse(args); err != nil {
		return report("usage", err, constants.ExitUsage)
	}
	ha.Target = flags.Args()
	if len(ha.Target) == 0 {
		return report("usage", errors.New("no target program"), constants.ExitUsage)
	}

	// 在设置限制之前准备好 exec 的参数，避免限制生效后再分配内存
	path, err := lookPath(ha.Target[0])
	if err != nil {
		return report("exec", err, execExitCode(err))
	}
	env := os.Environ()

	if err := ApplyLimits(Limitation{TimeSec: ha.TimeSec, MemoryMB: ha.MemoryMB}); err != nil {
		return report("limits", err, constants.ExitLimitFailure)
	}

	err = unix.Exec(path, ha.Target, env)
	return report("exec", err, execExitCode(err))
}

func execExitCode(err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		return constants.ExitNotFound
	}
	return constants.ExitExecFailure
}

func lookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if errors.Is(err, exec.ErrDot) {
		return path, nil
	}
	return path, err
}
