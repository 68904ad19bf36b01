package report

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/sempr/psutil-go/internal/client"
	"github.com/sempr/psutil-go/pkg/models"
)

// JSON writes one document per finished run.
type JSON struct {
	Out    io.Writer
	Indent bool
}

func NewJSON() *JSON {
	return &JSON{Out: os.Stdout, Indent: true}
}

func (j *JSON) encode(v any) {
	enc := json.NewEncoder(j.Out)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to write json report", "err", err)
	}
}

func (j *JSON) StartEvaluation(string, int)        {}
func (j *JSON) FinishCase(client.CaseResult)       {}
func (j *JSON) StartValidation(string)             {}
func (j *JSON) FinishValidationFile(string, error) {}

func (j *JSON) FinishEvaluation(s *client.Summary) {
	j.encode(TotalResults(s))
}

func (j *JSON) FinishValidation(s *client.ValidationSummary) {
	out := models.ValidationResults{
		Validator: s.Validator,
		Good:      s.Good,
		Errors:    s.Errors,
		Failures:  make([]models.ValidationReport, 0, len(s.Failures)),
	}
	for _, f := range s.Failures {
		out.Failures = append(out.Failures, models.ValidationReport{Path: f.Path, Error: f.Err.Error()})
	}
	j.encode(out)
}

// TotalResults converts a summary into its wire form.
func TotalResults(s *client.Summary) models.TotalResults {
	out := models.TotalResults{
		RunID:       s.RunID,
		Solution:    s.Solution,
		Cases:       make([]models.CaseReport, 0, len(s.Cases)),
		Good:        s.Good,
		Incorrect:   make(map[string]int, len(s.Incorrect)),
		JudgeErrors: s.JudgeErrors,
		Total:       s.Total(),
	}
	for r, n := range s.Incorrect {
		if n > 0 {
			out.Incorrect[r.String()] = n
		}
	}
	for _, c := range s.Cases {
		cr := models.CaseReport{Name: c.Case.Name}
		if c.Err != nil {
			cr.JudgeError = c.Err.Error()
		} else {
			cr.Result = c.Outcome.Result.String()
			cr.Time = c.Outcome.WallTime.Milliseconds()
			cr.CPUTime = c.Outcome.CPUTime.Milliseconds()
			cr.ExitCode = c.Outcome.ExitCode
			cr.Signal = c.Outcome.Signal
		}
		out.Cases = append(out.Cases, cr)
	}
	return out
}
