package judge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/sempr/psutil-go/internal/sandbox"
	"github.com/sempr/psutil-go/pkg/constants"
	"golang.org/x/sync/errgroup"
)

// EvalConfig is fixed for a whole run.
type EvalConfig struct {
	Command  string
	Args     []string
	Limit    sandbox.Limitation
	IgnoreCR bool
}

// Outcome is the measured result of one case.
type Outcome struct {
	Result   Result
	WallTime time.Duration
	CPUTime  time.Duration
	ExitCode int
	Signal   string
}

type runState int

const (
	stateRunning runState = iota
	stateExited
	stateTimedOut
	stateCancelled
)

// closedAsEOF ends the output stream when the pipe was closed by the grace
// timer.
type closedAsEOF struct {
	r io.Reader
}

func (c closedAsEOF) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if errors.Is(err, os.ErrClosed) {
		err = io.EOF
	}
	return n, err
}

// Runner executes single cases under a Limiter.
type Runner struct {
	Limiter sandbox.Limiter
	// Grace bounds how long the output pipe may stay open after the child
	// has been reaped.
	Grace  time.Duration
	Logger *slog.Logger
}

func NewRunner(limiter sandbox.Limiter) *Runner {
	return &Runner{Limiter: limiter, Grace: constants.DrainGrace}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// RunCase runs cfg with input on stdin and judges its stdout against
// expected. A non-nil error is always a *JudgeError and the outcome is then
// meaningless. The child is reaped on every path.
func (r *Runner) RunCase(ctx context.Context, cfg EvalConfig, input, expected string) (Outcome, error) {
	in, err := OpenData(input)
	if err != nil {
		return Outcome{}, &JudgeError{Op: "open", Path: input, Err: err}
	}
	defer in.Close()

	want, err := OpenData(expected)
	if err != nil {
		return Outcome{}, &JudgeError{Op: "open", Path: expected, Err: err}
	}
	defer want.Close()

	pr, pw, err := os.Pipe()
	if err != nil {
		return Outcome{}, &JudgeError{Op: "pipe", Path: cfg.Command, Err: err}
	}
	defer pr.Close()

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Stdin = in
	cmd.Stdout = pw
	cmd.WaitDelay = constants.WaitDelay
	setProcessGroup(cmd)

	start := time.Now()
	err = r.Limiter.Start(cmd, cfg.Limit)
	pw.Close()
	if err != nil {
		op := "spawn"
		var se *sandbox.StartError
		if errors.As(err, &se) {
			op = se.Stage
		}
		return Outcome{}, &JudgeError{Op: op, Path: cfg.Command, Err: err}
	}
	log := r.logger().With("pid", cmd.Process.Pid, "input", input)
	log.Debug("case started", "limit", cfg.Limit.String())

	var (
		g        errgroup.Group
		equal    bool
		waitDone = make(chan error, 1)
	)
	g.Go(func() error {
		waitDone <- cmd.Wait()
		return nil
	})
	g.Go(func() error {
		out := closedAsEOF{pr}
		eq, err := Equal(out, want, cfg.IgnoreCR)
		// keep the pipe flowing after a mismatch
		_, derr := io.Copy(io.Discard, out)
		if err == nil && derr != nil {
			err = derr
		}
		equal = eq
		return err
	})

	timer := time.NewTimer(cfg.Limit.WallTimeout())
	defer timer.Stop()

	var waitErr error
	state := stateRunning
	select {
	case waitErr = <-waitDone:
		state = stateExited
	case <-timer.C:
		state = stateTimedOut
	case <-ctx.Done():
		state = stateCancelled
	}
	if state != stateExited {
		select {
		case waitErr = <-waitDone:
			if state == stateTimedOut {
				state = stateExited
			}
		default:
			log.Debug("killing process group", "timed_out", state == stateTimedOut)
			killProcessGroup(cmd)
			waitErr = <-waitDone
		}
	}
	wall := time.Since(start)
	if state == stateExited {
		// the group outlives its leader; background jobs still hold stdout
		killProcessGroup(cmd)
	}

	grace := time.AfterFunc(r.Grace, func() {
		log.Warn("output pipe still open after exit, closing")
		pr.Close()
	})
	cmpErr := g.Wait()
	grace.Stop()

	if state == stateCancelled {
		return Outcome{}, &JudgeError{Op: "cancel", Path: input, Err: ctx.Err()}
	}
	if cmd.ProcessState == nil {
		return Outcome{}, &JudgeError{Op: "wait", Path: cfg.Command, Err: waitErr}
	}

	term := termination(cmd.ProcessState)
	term.TimedOut = state == stateTimedOut
	if cmpErr != nil && term.Success() {
		return Outcome{}, &JudgeError{Op: "compare", Path: expected, Err: cmpErr}
	}

	out := Outcome{
		Result:   Classify(term, equal),
		WallTime: wall,
		CPUTime:  cmd.ProcessState.UserTime() + cmd.ProcessState.SystemTime(),
		ExitCode: term.ExitCode,
		Signal:   term.Signal,
	}
	log.Debug("case finished", "result", out.Result.String(), "wall", wall, "cpu", out.CPUTime)
	return out, nil
}
