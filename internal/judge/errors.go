package judge

// JudgeError is a harness failure while running one case. It is never a
// verdict about the solution.
type JudgeError struct {
	Op   string
	Path string
	Err  error
}

func (e *JudgeError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *JudgeError) Unwrap() error { return e.Err }

// ValidationError is returned when a validator rejects an input or cannot
// be run on it.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return "validate " + e.Path + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
