// Package history provides an undo/redo command history.
//
// The history never knows what a command does. Commands are opaque values
// compared by identity; a pluggable Strategy performs the actual execute,
// undo and redo work against the caller's domain model.
//
// # Buffers
//
// Executed commands live in the past buffer (oldest first, newest last).
// Undone commands live in the future buffer (nearest to the present first).
// A command is in at most one buffer at a time, and every buffered command
// has exactly one Descriptor:
//
//	h, err := history.New[Command](strategy, notifier, history.WithCapacity(100))
//
//	h.Execute(cmd) // strategy.Execute, then push to past
//	h.Undo()       // strategy.Undo, move newest past to front of future
//	h.Redo()       // strategy.Redo, move front of future to end of past
//
// Executing a new command forgets the whole future buffer.
//
// # Failures
//
// Execute may fail; the history is left untouched and an *ExecutionError is
// returned. Undo and redo must not fail once a command executed. If they do,
// the history no longer matches the model: it is wiped down to the base
// command, a Changed notification is posted, and a *ReplayError is returned.
//
// # Capacity
//
// When past plus future exceeds the capacity, the oldest past command is
// forgotten first, then the most distant future command. Forgotten commands
// are never passed to the strategy.
//
// # Jumping
//
// JumpTo moves to any descriptor returned by History using single undo/redo
// steps and posts one Replayed notification for the whole traversal.
// UndoUntil and RedoUntil step one command at a time and notify per step.
//
// # Naming
//
// Descriptor names come from, in order: the command's Description method,
// a NameRegistry entry for the command's type, the command's type name.
//
// A History is not safe for concurrent use. It is meant to be owned by a
// single caller, such as a UI event loop.
package history
