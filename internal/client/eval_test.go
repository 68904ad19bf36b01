package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/internal/sandbox"
	"github.com/stretchr/testify/require"
)

// scriptedRunner returns verdicts keyed by the base name of the input.
type scriptedRunner struct {
	results map[string]judge.Result
	fail    map[string]bool
	calls   []string
}

func (r *scriptedRunner) RunCase(ctx context.Context, cfg judge.EvalConfig, input, expected string) (judge.Outcome, error) {
	name := filepath.Base(input)
	r.calls = append(r.calls, name)
	if r.fail[name] {
		return judge.Outcome{}, &judge.JudgeError{Op: "limits", Path: cfg.Command, Err: errors.New("setrlimit failed")}
	}
	return judge.Outcome{Result: r.results[name]}, nil
}

type recordingReporter struct {
	nopReporter
	started  int
	finished []CaseResult
	summary  *Summary
	files    map[string]error
	vsummary *ValidationSummary
}

func (r *recordingReporter) StartEvaluation(solution string, cases int) { r.started = cases }
func (r *recordingReporter) FinishCase(c CaseResult)                    { r.finished = append(r.finished, c) }
func (r *recordingReporter) FinishEvaluation(s *Summary)                { r.summary = s }
func (r *recordingReporter) FinishValidationFile(path string, err error) {
	if r.files == nil {
		r.files = make(map[string]error)
	}
	r.files[path] = err
}
func (r *recordingReporter) FinishValidation(s *ValidationSummary) { r.vsummary = s }

func writeSolution(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "solution.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestEvaluate_Counts(t *testing.T) {
	data := t.TempDir()
	touch(t, data, "1.input", "1.output", "2.input", "2.output", "3.input", "3.output", "4.input", "4.output")
	solution := writeSolution(t, t.TempDir(), "#!/bin/sh\n")

	runner := &scriptedRunner{
		results: map[string]judge.Result{"1.input": judge.Correct, "2.input": judge.WrongAnswer, "4.input": judge.TimeOver},
		fail:    map[string]bool{"3.input": true},
	}
	reporter := &recordingReporter{}
	ev := NewEvaluator(runner, nil, reporter)

	summary, err := ev.Evaluate(context.Background(), EvalOptions{
		Solution: solution, DataDir: data, InFilter: "input", OutFilter: "output",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"1.input", "2.input", "3.input", "4.input"}, runner.calls)
	require.Equal(t, 1, summary.Good)
	require.Equal(t, 1, summary.Incorrect[judge.WrongAnswer])
	require.Equal(t, 1, summary.Incorrect[judge.TimeOver])
	require.Equal(t, 1, summary.JudgeErrors)
	require.Equal(t, 4, summary.Total())
	require.Equal(t, summary.Good+summary.IncorrectTotal()+summary.JudgeErrors, summary.Total())
	require.False(t, summary.Passed())
	require.NotEmpty(t, summary.RunID)

	require.Equal(t, 4, reporter.started)
	require.Len(t, reporter.finished, 4)
	var je *judge.JudgeError
	require.ErrorAs(t, reporter.finished[2].Err, &je)
	require.Same(t, summary, reporter.summary)
}

func TestEvaluate_CountMismatchRunsNothing(t *testing.T) {
	data := t.TempDir()
	touch(t, data, "1.input", "2.input", "3.input", "1.output", "2.output")
	solution := writeSolution(t, t.TempDir(), "#!/bin/sh\n")

	runner := &scriptedRunner{}
	reporter := &recordingReporter{}
	summary, err := NewEvaluator(runner, nil, reporter).Evaluate(context.Background(), EvalOptions{
		Solution: solution, DataDir: data, InFilter: "input", OutFilter: "output",
	})
	require.ErrorIs(t, err, ErrConfig)
	require.Nil(t, summary)
	require.Empty(t, runner.calls)
	require.Zero(t, reporter.started)
}

func TestEvaluate_BadArguments(t *testing.T) {
	dir := t.TempDir()
	solution := writeSolution(t, dir, "#!/bin/sh\n")
	ev := NewEvaluator(&scriptedRunner{}, nil, nil)

	tests := []struct {
		name string
		opts EvalOptions
	}{
		{name: "missing solution", opts: EvalOptions{Solution: filepath.Join(dir, "nope"), DataDir: dir}},
		{name: "solution is a directory", opts: EvalOptions{Solution: dir, DataDir: dir}},
		{name: "missing data dir", opts: EvalOptions{Solution: solution, DataDir: filepath.Join(dir, "nope")}},
		{name: "data dir is a file", opts: EvalOptions{Solution: solution, DataDir: solution}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ev.Evaluate(context.Background(), tt.opts)
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	data := t.TempDir()
	touch(t, data, "1.input", "1.output")
	solution := writeSolution(t, t.TempDir(), "#!/bin/sh\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &scriptedRunner{}
	summary, err := NewEvaluator(runner, nil, nil).Evaluate(ctx, EvalOptions{
		Solution: solution, DataDir: data, InFilter: "input", OutFilter: "output",
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, summary.Total())
	require.Empty(t, runner.calls)
}

func TestEvaluate_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("runs child processes")
	}
	exe, err := os.Executable()
	require.NoError(t, err)

	data := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(data, name), []byte(content), 0o644))
	}
	write("01.input", "hello\n")
	write("01.output", "hello\n")
	write("02.input", "world\n")
	write("02.output", "world\n")
	write("03.input", "foo\n")
	write("03.output", "bar\n")
	solution := writeSolution(t, t.TempDir(), "#!/bin/sh\nexec cat\n")

	reporter := &recordingReporter{}
	ev := NewEvaluator(judge.NewRunner(sandbox.New(exe)), nil, reporter)
	summary, err := ev.Evaluate(context.Background(), EvalOptions{
		Solution:  solution,
		DataDir:   data,
		InFilter:  "input",
		OutFilter: "output",
		Limit:     sandbox.Limitation{TimeSec: 2, MemoryMB: 256},
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Good)
	require.Equal(t, 1, summary.Incorrect[judge.WrongAnswer])
	require.Zero(t, summary.JudgeErrors)
	require.Equal(t, 3, summary.Total())
	require.True(t, strings.HasSuffix(reporter.finished[2].Case.Input, "03.input"))
}
