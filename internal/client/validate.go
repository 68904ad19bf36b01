package client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/pkg/constants"
)

type ValidateOptions struct {
	Validator string
	Paths     []string
	// Filter is matched against file names only. Empty means everything.
	Filter string
}

type ValidationFailure struct {
	Path string
	Err  error
}

type ValidationSummary struct {
	Validator string
	Good      int
	Errors    int
	Failures  []ValidationFailure
}

func (s *ValidationSummary) Total() int { return s.Good + s.Errors }

type Validator struct {
	Resolver *Resolver
	Reporter Reporter
	Logger   *slog.Logger
}

func NewValidator(resolver *Resolver, reporter Reporter) *Validator {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Validator{Resolver: resolver, Reporter: reporter, Logger: slog.Default()}
}

// Validate feeds every matching file under opts.Paths to the validator.
func (v *Validator) Validate(ctx context.Context, opts ValidateOptions) (*ValidationSummary, error) {
	expr := opts.Filter
	if expr == "" {
		expr = constants.DefaultValidateExpr
	}
	filter, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %w", ErrConfig, err)
	}
	if err := checkRegularFile(opts.Validator); err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	command, args, err := v.Resolver.Resolve(opts.Validator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	summary := &ValidationSummary{Validator: opts.Validator}
	record := func(display string, err error) {
		if err != nil {
			summary.Errors++
			summary.Failures = append(summary.Failures, ValidationFailure{Path: display, Err: err})
			v.Logger.Debug("validation failed", "path", display, "err", err)
		} else {
			summary.Good++
		}
		v.Reporter.FinishValidationFile(display, err)
	}

	v.Reporter.StartValidation(opts.Validator)
	for _, root := range opts.Paths {
		if err := ctx.Err(); err != nil {
			v.Reporter.FinishValidation(summary)
			return summary, err
		}

		fi, err := os.Stat(root)
		if err != nil {
			record(root, err)
			continue
		}
		if !fi.IsDir() {
			if filter.MatchString(filepath.Base(root)) {
				record(root, judge.Validate(ctx, command, args, root))
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				record(relativeTo(root, path), err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !isDataFile(path, d) || !filter.MatchString(d.Name()) {
				return nil
			}
			record(relativeTo(root, path), judge.Validate(ctx, command, args, path))
			return nil
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			v.Reporter.FinishValidation(summary)
			return summary, err
		}
	}

	v.Logger.Info("validation finished", "validator", opts.Validator, "good", summary.Good, "errors", summary.Errors)
	v.Reporter.FinishValidation(summary)
	return summary, nil
}
