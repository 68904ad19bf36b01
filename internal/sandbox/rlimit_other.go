//go:build !linux && !darwin

package sandbox

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/sempr/psutil-go/pkg/constants"
)

var errUnsupported = errors.New("resource limits are not supported on this OS")

// ApplyLimits is not available on this OS.
func ApplyLimits(limit Limitation) error {
	return errUnsupported
}

type plainLimiter struct {
	once sync.Once
}

// New returns a Limiter that starts commands without restrictions. The wall
// clock deadline of the runner still applies.
func New(helperPath string, helperArgs ...string) Limiter {
	return &plainLimiter{}
}

func (l *plainLimiter) Start(cmd *exec.Cmd, limit Limitation) error {
	l.once.Do(func() {
		slog.Warn("Resource limits (rlimit) are not supported on this OS. Running without restrictions.")
	})
	if err := cmd.Start(); err != nil {
		return &StartError{Stage: "spawn", Err: err}
	}
	return nil
}

func ChildMain(args []string) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", HelperCommand, errUnsupported)
	return constants.ExitUsage
}
