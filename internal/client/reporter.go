package client

// Reporter receives progress of evaluation and validation runs.
type Reporter interface {
	StartEvaluation(solution string, cases int)
	FinishCase(c CaseResult)
	FinishEvaluation(s *Summary)

	StartValidation(validator string)
	FinishValidationFile(path string, err error)
	FinishValidation(s *ValidationSummary)
}

type nopReporter struct{}

func (nopReporter) StartEvaluation(string, int)         {}
func (nopReporter) FinishCase(CaseResult)               {}
func (nopReporter) FinishEvaluation(*Summary)           {}
func (nopReporter) StartValidation(string)              {}
func (nopReporter) FinishValidationFile(string, error)  {}
func (nopReporter) FinishValidation(*ValidationSummary) {}
