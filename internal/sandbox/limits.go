package sandbox

import (
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/sempr/psutil-go/pkg/constants"
)

// HelperCommand is the subcommand name under which a binary re-executes
// itself to apply limits before exec'ing the solution.
const HelperCommand = "limit-exec"

// Limitation is the resource budget of one child process. Zero values mean
// the limit is absent.
type Limitation struct {
	TimeSec  float64
	MemoryMB uint64
}

// CPUSeconds is the soft RLIMIT_CPU value: the time limit rounded up, or one
// second when no time limit is given.
func (l Limitation) CPUSeconds() uint64 {
	if l.TimeSec <= 0 {
		return 1
	}
	return uint64(math.Ceil(l.TimeSec))
}

// WallTimeout is the authoritative wall-clock deadline of a case.
func (l Limitation) WallTimeout() time.Duration {
	t := l.TimeSec
	if t <= 0 {
		t = constants.DefaultTimeLimit
	}
	return time.Duration(t * float64(time.Second))
}

// AddressSpace returns the RLIMIT_AS value in bytes.
func (l Limitation) AddressSpace() (uint64, bool) {
	if l.MemoryMB == 0 {
		return 0, false
	}
	return l.MemoryMB * constants.MiB, true
}

func (l Limitation) String() string {
	mem := "unlimited"
	if l.MemoryMB > 0 {
		mem = fmt.Sprintf("%dMB", l.MemoryMB)
	}
	return fmt.Sprintf("time=%ss memory=%s", strconv.FormatFloat(l.TimeSec, 'g', -1, 64), mem)
}

// Limiter starts a prepared command with the limits applied to the child
// between fork and exec.
type Limiter interface {
	Start(cmd *exec.Cmd, limit Limitation) error
}

// StartError reports that the child never reached the target program.
type StartError struct {
	Stage string
	Err   error
}

func (e *StartError) Error() string {
	return "sandbox " + e.Stage + ": " + e.Err.Error()
}

func (e *StartError) Unwrap() error { return e.Err }

// helperArgv builds the argument vector that makes the helper apply limit and
// then exec target.
func helperArgv(prefix []string, limit Limitation, target []string) []string {
	argv := make([]string, 0, len(prefix)+len(target)+6)
	argv = append(argv, prefix...)
	argv = append(argv, HelperCommand,
		"--time", strconv.FormatFloat(limit.TimeSec, 'g', -1, 64),
		"--memory", strconv.FormatUint(limit.MemoryMB, 10),
		"--")
	return append(argv, target...)
}
