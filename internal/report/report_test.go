package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sempr/psutil-go/internal/client"
	"github.com/sempr/psutil-go/internal/judge"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/sempr/psutil-go/pkg/rawtext"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *client.Summary {
	return &client.Summary{
		RunID:    "run-1",
		Solution: "sol",
		Good:     1,
		Incorrect: map[judge.Result]int{
			judge.WrongAnswer: 1,
		},
		JudgeErrors: 1,
		Cases: []client.CaseResult{
			{Case: client.TestCase{Name: "1.input"}, Outcome: judge.Outcome{Result: judge.Correct, WallTime: 12 * time.Millisecond}},
			{Case: client.TestCase{Name: "2.input"}, Outcome: judge.Outcome{Result: judge.WrongAnswer, ExitCode: 0}},
			{Case: client.TestCase{Name: "3.input"}, Err: &judge.JudgeError{Op: "limits", Path: "sol", Err: errors.New("boom")}},
		},
	}
}

func TestTerminal_Evaluation(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal().DisableColor()
	term.Out = &out

	s := sampleSummary()
	term.StartEvaluation("sol", len(s.Cases))
	for _, c := range s.Cases {
		term.FinishCase(c)
	}
	term.FinishEvaluation(s)

	text := out.String()
	require.Contains(t, text, "      [Correct] 1.input (12ms)")
	require.Contains(t, text, " [Wrong Answer] 2.input")
	require.Contains(t, text, "  [Judge Error] limits sol: boom\n\t=> 3.input")
	require.Contains(t, text, "Good: 1")
	require.Contains(t, text, "Incorrect: 1")
	require.Contains(t, text, "Wrong Answer: 1")
	require.Contains(t, text, "Judge Error: 1")
}

func TestTerminal_Validation(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal().DisableColor()
	term.Out, term.Err = &out, &errOut

	term.StartValidation("val")
	term.FinishValidationFile("a.in", nil)
	term.FinishValidationFile("b.in", errors.New("exit status 1"))
	term.FinishValidation(&client.ValidationSummary{Good: 1, Errors: 1})

	require.Equal(t, "[Error] exit status 1\n\t=> b.in\n", errOut.String())
	require.True(t, strings.HasPrefix(out.String(), "Validating .."))
	require.Contains(t, out.String(), "Good: 1")
	require.Contains(t, out.String(), "Error: 1")
}

func TestJSON_Evaluation(t *testing.T) {
	var out bytes.Buffer
	j := &JSON{Out: &out}
	j.FinishEvaluation(sampleSummary())

	var got models.TotalResults
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "run-1", got.RunID)
	require.Equal(t, 3, got.Total)
	require.Equal(t, map[string]int{"Wrong Answer": 1}, got.Incorrect)
	require.Len(t, got.Cases, 3)
	require.Equal(t, "Correct", got.Cases[0].Result)
	require.Equal(t, int64(12), got.Cases[0].Time)
	require.Empty(t, got.Cases[2].Result)
	require.Equal(t, "limits sol: boom", got.Cases[2].JudgeError)
}

func TestJSON_Validation(t *testing.T) {
	var out bytes.Buffer
	j := &JSON{Out: &out}
	j.FinishValidation(&client.ValidationSummary{
		Validator: "val",
		Good:      2,
		Errors:    1,
		Failures:  []client.ValidationFailure{{Path: "x.in", Err: errors.New("exit status 2")}},
	})

	var got models.ValidationResults
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, 2, got.Good)
	require.Equal(t, []models.ValidationReport{{Path: "x.in", Error: "exit status 2"}}, got.Failures)
}

func TestTerminal_Sanitize(t *testing.T) {
	var out, errOut bytes.Buffer
	term := NewTerminal().DisableColor()
	term.Out, term.Err = &out, &errOut

	term.SanitizeFile(rawtext.FileResult{Path: "a.in", Status: rawtext.Good})
	term.SanitizeFile(rawtext.FileResult{Path: "b.in", Status: rawtext.Changed})
	term.SanitizeFile(rawtext.FileResult{Path: "c.in", Status: rawtext.Failed, Err: rawtext.ErrNotText})
	term.FinishSanitize(rawtext.Stats{Good: 1, Changed: 1, Errors: 1}, false)

	require.Equal(t, "Converted: b.in\n   Good: 1\nChanged: 1\n  Error: 1\n", out.String())
	require.Contains(t, errOut.String(), "[Error] not a plain ascii text file\n\t=> c.in")
	require.Contains(t, errOut.String(), "Run with --confirmed to make actual change")
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("broken pipe") }

func TestJSON_WriteErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	j := &JSON{Out: brokenWriter{}}
	j.FinishEvaluation(sampleSummary())

	require.Contains(t, logs.String(), "failed to write json report")
	require.Contains(t, logs.String(), "broken pipe")
}
