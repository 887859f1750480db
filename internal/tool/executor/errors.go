package executor

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timeout")

// CommandError wraps a failure to start or run a command.
type CommandError struct {
	Cmd   string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Cmd, e.Cause)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}
