package script

import "errors"

// Errors for script execution.
var (
	// ErrClosed is returned when running a script on a closed engine.
	ErrClosed = errors.New("script engine is closed")

	// ErrTimeout is returned when a script runs longer than its timeout.
	ErrTimeout = errors.New("script timeout")

	// ErrReentrant is raised when a Lua command calls back into the history.
	ErrReentrant = errors.New("history is busy running a command")
)
