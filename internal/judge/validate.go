package judge

import (
	"context"
	"os/exec"
)

// Validate runs exe with input on stdin. There are no limits and no
// deadline beyond ctx; the validator's output is discarded.
func Validate(ctx context.Context, exe string, args []string, input string) error {
	in, err := OpenData(input)
	if err != nil {
		return &ValidationError{Path: input, Err: err}
	}
	defer in.Close()

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = in
	if err := cmd.Run(); err != nil {
		return &ValidationError{Path: input, Err: err}
	}
	return nil
}
