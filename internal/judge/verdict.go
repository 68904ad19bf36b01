package judge

// Result is the verdict of one evaluated case.
type Result int

const (
	Correct Result = iota
	WrongAnswer
	TimeOver
	MemoryOver
	RuntimeError
)

var resultNames = []string{"Correct", "Wrong Answer", "Time Over", "Memory Over", "Runtime Error"}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return "Unknown"
	}
	return resultNames[r]
}

// Results lists every verdict in display order.
func Results() []Result {
	return []Result{Correct, WrongAnswer, TimeOver, MemoryOver, RuntimeError}
}

// Termination describes how a child process ended.
type Termination struct {
	TimedOut bool
	ExitCode int
	// Signal is the name of the terminating signal, empty on a normal exit.
	Signal string
	// CPUExceeded is set when the CPU-time rlimit killed the process.
	CPUExceeded bool
}

func (t Termination) Success() bool {
	return !t.TimedOut && t.Signal == "" && t.ExitCode == 0
}

// Classify maps a termination and the comparison result to a verdict.
// MemoryOver is never produced: an address-space failure has no portable
// signature and shows up as a runtime error.
func Classify(t Termination, equal bool) Result {
	switch {
	case t.TimedOut, t.CPUExceeded:
		return TimeOver
	case !t.Success():
		return RuntimeError
	case equal:
		return Correct
	default:
		return WrongAnswer
	}
}
