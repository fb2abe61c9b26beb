package history

import (
	"errors"
	"fmt"
)

// Precondition errors. These indicate programmer mistakes and are returned
// before any state changes.
var (
	ErrNilCommand        = errors.New("command cannot be nil")
	ErrNilStrategy       = errors.New("history strategy cannot be nil")
	ErrNilNotifier       = errors.New("history notifier cannot be nil")
	ErrInvalidCapacity   = errors.New("history capacity must be greater than 0")
	ErrDuplicateCommand  = errors.New("command is already recorded in the history")
	ErrUnknownDescriptor = errors.New("descriptor does not belong to this history")
	ErrInvalidTarget     = errors.New("descriptor is not reachable in this direction")
)

// Failure kinds, matched with errors.Is.
var (
	ErrExecutionFailed = errors.New("command execution failed")
	ErrReplayFailed    = errors.New("command replay failed")
)

// ExecutionError is returned when the strategy fails to execute a new
// command. The history is unchanged.
type ExecutionError struct {
	// Command is the display name of the rejected command.
	Command string

	// Err is the strategy failure.
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.Command, e.Err)
}

// Unwrap returns the strategy failure.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is matches ErrExecutionFailed.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}

// ReplayOp identifies the replay step that failed.
type ReplayOp int

const (
	// OpUndo is an undo step.
	OpUndo ReplayOp = iota
	// OpRedo is a redo step.
	OpRedo
)

// String returns the operation name.
func (op ReplayOp) String() string {
	switch op {
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// ReplayError is returned when the strategy fails to undo or redo a command
// that executed successfully before. By the time it is returned the history
// has been cleared down to the base command.
type ReplayError struct {
	// Op is the failed step.
	Op ReplayOp

	// Command is the display name of the command that failed.
	Command string

	// Err is the strategy failure.
	Err error
}

// Error implements the error interface.
func (e *ReplayError) Error() string {
	return fmt.Sprintf("%s %q: %v (history cleared)", e.Op, e.Command, e.Err)
}

// Unwrap returns the strategy failure.
func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Is matches ErrReplayFailed.
func (e *ReplayError) Is(target error) bool {
	return target == ErrReplayFailed
}

// PanicError wraps a panic raised inside a strategy call.
type PanicError struct {
	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("strategy panic: %v", e.Value)
}
