package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/internal/sandbox"
)

// ErrConfig marks errors that abort a run before any case is executed.
var ErrConfig = errors.New("invalid configuration")

// CaseRunner runs one case. *judge.Runner implements it.
type CaseRunner interface {
	RunCase(ctx context.Context, cfg judge.EvalConfig, input, expected string) (judge.Outcome, error)
}

type EvalOptions struct {
	Solution  string
	DataDir   string
	InFilter  string
	OutFilter string
	Limit     sandbox.Limitation
	IgnoreCR  bool
}

// CaseResult is the outcome of one case. Err is a *judge.JudgeError when the
// harness failed, in which case Outcome is zero.
type CaseResult struct {
	Case    TestCase
	Outcome judge.Outcome
	Err     error
}

type Summary struct {
	RunID       string
	Solution    string
	Good        int
	Incorrect   map[judge.Result]int
	JudgeErrors int
	Cases       []CaseResult
}

func newSummary(runID, solution string) *Summary {
	return &Summary{RunID: runID, Solution: solution, Incorrect: make(map[judge.Result]int)}
}

func (s *Summary) add(c CaseResult) {
	s.Cases = append(s.Cases, c)
	switch {
	case c.Err != nil:
		s.JudgeErrors++
	case c.Outcome.Result == judge.Correct:
		s.Good++
	default:
		s.Incorrect[c.Outcome.Result]++
	}
}

// IncorrectTotal sums every non-correct verdict.
func (s *Summary) IncorrectTotal() int {
	n := 0
	for _, c := range s.Incorrect {
		n += c
	}
	return n
}

func (s *Summary) Total() int {
	return s.Good + s.IncorrectTotal() + s.JudgeErrors
}

// Passed reports whether every case was judged correct.
func (s *Summary) Passed() bool {
	return s.Total() > 0 && s.Good == s.Total()
}

type Evaluator struct {
	Runner   CaseRunner
	Resolver *Resolver
	Reporter Reporter
	Logger   *slog.Logger
}

func NewEvaluator(runner CaseRunner, resolver *Resolver, reporter Reporter) *Evaluator {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Evaluator{Runner: runner, Resolver: resolver, Reporter: reporter, Logger: slog.Default()}
}

// Evaluate runs the solution against every case of the data directory in
// order. Configuration problems are returned before any case runs; judge
// errors are counted and the run goes on.
func (e *Evaluator) Evaluate(ctx context.Context, opts EvalOptions) (*Summary, error) {
	if err := checkRegularFile(opts.Solution); err != nil {
		return nil, fmt.Errorf("solution: %w", err)
	}
	fi, err := os.Stat(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: data directory: %w", ErrConfig, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrConfig, opts.DataDir)
	}

	command, args, err := e.Resolver.Resolve(opts.Solution)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cases, err := DiscoverCases(opts.DataDir, opts.InFilter, opts.OutFilter)
	if err != nil {
		return nil, err
	}

	cfg := judge.EvalConfig{Command: command, Args: args, Limit: opts.Limit, IgnoreCR: opts.IgnoreCR}
	runID := uuid.NewString()
	log := e.Logger.With("run", runID)
	log.Info("evaluation started", "solution", opts.Solution, "command", command, "cases", len(cases), "limit", opts.Limit.String())

	summary := newSummary(runID, opts.Solution)
	e.Reporter.StartEvaluation(opts.Solution, len(cases))
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			log.Warn("evaluation interrupted", "err", err, "done", summary.Total())
			e.Reporter.FinishEvaluation(summary)
			return summary, err
		}

		outcome, err := e.Runner.RunCase(ctx, cfg, tc.Input, tc.Output)
		result := CaseResult{Case: tc, Outcome: outcome, Err: err}
		if err != nil {
			log.Error("judge error", "case", tc.Name, "err", err)
		} else {
			log.Debug("case judged", "case", tc.Name, "result", outcome.Result.String(), "wall", outcome.WallTime)
		}
		summary.add(result)
		e.Reporter.FinishCase(result)
	}

	log.Info("evaluation finished", "good", summary.Good, "incorrect", summary.IncorrectTotal(), "judge_errors", summary.JudgeErrors)
	e.Reporter.FinishEvaluation(summary)
	return summary, nil
}
