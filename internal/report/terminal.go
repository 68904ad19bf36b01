package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sempr/psutil-go/internal/client"
	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/pkg/rawtext"
)

const labelWidth = 15

// Terminal prints human readable progress. Case lines go to Out, failures
// of validation go to Err.
type Terminal struct {
	Out io.Writer
	Err io.Writer

	green   *color.Color
	red     *color.Color
	yellow  *color.Color
	magenta *color.Color

	startedAt time.Time
}

func NewTerminal() *Terminal {
	return &Terminal{
		Out:     os.Stdout,
		Err:     os.Stderr,
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
		magenta: color.New(color.FgMagenta),
	}
}

// DisableColor turns off escape sequences regardless of the terminal.
func (t *Terminal) DisableColor() *Terminal {
	for _, c := range []*color.Color{t.green, t.red, t.yellow, t.magenta} {
		c.DisableColor()
	}
	return t
}

func (t *Terminal) label(c *color.Color, text string) string {
	return c.Sprint(fmt.Sprintf("%*s", labelWidth, "["+text+"]"))
}

func (t *Terminal) resultColor(r judge.Result) *color.Color {
	switch r {
	case judge.Correct:
		return t.green
	case judge.TimeOver, judge.MemoryOver:
		return t.yellow
	default:
		return t.red
	}
}

func (t *Terminal) StartEvaluation(solution string, cases int) {
	t.startedAt = time.Now()
	fmt.Fprintln(t.Out, t.green.Sprint("Evaluating .."))
	fmt.Fprintf(t.Out, "%d cases for %s\n\n", cases, solution)
}

func (t *Terminal) FinishCase(c client.CaseResult) {
	if c.Err != nil {
		fmt.Fprintf(t.Out, "%s %v\n", t.label(t.magenta, "Judge Error"), c.Err)
		fmt.Fprintf(t.Out, "\t=> %s\n", c.Case.Name)
		return
	}
	r := c.Outcome.Result
	fmt.Fprintf(t.Out, "%s %s (%dms)\n", t.label(t.resultColor(r), r.String()), c.Case.Name, c.Outcome.WallTime.Milliseconds())
}

func (t *Terminal) FinishEvaluation(s *client.Summary) {
	fmt.Fprintln(t.Out)
	fmt.Fprintf(t.Out, "       %s: %d\n", t.green.Sprint("Good"), s.Good)
	fmt.Fprintf(t.Out, "  %s: %d\n", t.red.Sprint("Incorrect"), s.IncorrectTotal())
	for _, r := range judge.Results() {
		if n := s.Incorrect[r]; n > 0 {
			fmt.Fprintf(t.Out, "    %s: %d\n", t.resultColor(r).Sprint(r.String()), n)
		}
	}
	fmt.Fprintf(t.Out, "%s: %d\n", t.magenta.Sprint("Judge Error"), s.JudgeErrors)
	if !t.startedAt.IsZero() {
		fmt.Fprintf(t.Out, "\nFinished %d cases in %s\n", s.Total(), time.Since(t.startedAt).Round(time.Millisecond))
	}
}

func (t *Terminal) StartValidation(validator string) {
	fmt.Fprintln(t.Out, t.green.Sprint("Validating .."))
}

func (t *Terminal) FinishValidationFile(path string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(t.Err, "%s %v\n", t.red.Sprint("[Error]"), err)
	fmt.Fprintf(t.Err, "\t=> %s\n", path)
}

func (t *Terminal) FinishValidation(s *client.ValidationSummary) {
	fmt.Fprintf(t.Out, "   %s: %d\n", t.green.Sprint("Good"), s.Good)
	fmt.Fprintf(t.Out, "  %s: %d\n", t.red.Sprint("Error"), s.Errors)
}

// SanitizeFile prints a converted or failed file.
func (t *Terminal) SanitizeFile(res rawtext.FileResult) {
	switch res.Status {
	case rawtext.Changed:
		fmt.Fprintf(t.Out, "Converted: %s\n", res.Path)
	case rawtext.Failed:
		fmt.Fprintf(t.Err, "%s %v\n", t.red.Sprint("[Error]"), res.Err)
		fmt.Fprintf(t.Err, "\t=> %s\n", res.Path)
	}
}

func (t *Terminal) FinishSanitize(s rawtext.Stats, confirmed bool) {
	fmt.Fprintf(t.Out, "   %s: %d\n", t.green.Sprint("Good"), s.Good)
	fmt.Fprintf(t.Out, "%s: %d\n", t.yellow.Sprint("Changed"), s.Changed)
	fmt.Fprintf(t.Out, "  %s: %d\n", t.red.Sprint("Error"), s.Errors)
	if !confirmed && s.Changed > 0 {
		fmt.Fprintf(t.Err, "\n%s\n", t.red.Sprint("Run with --confirmed to make actual change"))
	}
}
