package pathutil

import "errors"

var (
	// ErrNoWorkspace is returned when no usable workspace root is set.
	ErrNoWorkspace = errors.New("no workspace root configured")
	// ErrOutsideWorkspace is returned when a path escapes the workspace root.
	ErrOutsideWorkspace = errors.New("path is outside the workspace")
)
