package history

// Strategy performs the real work behind history commands.
//
// Execute may fail. Undo and Redo must succeed for any command whose Execute
// succeeded; a failure there is treated as a broken history and wipes it.
type Strategy[C comparable] interface {
	// Execute runs a new command against the model.
	Execute(cmd C) error

	// Undo reverses a previously executed or redone command.
	Undo(cmd C) error

	// Redo replays a previously undone command. It is kept apart from
	// Execute because replaying may need to restore state (such as ids)
	// rather than generate it again.
	Redo(cmd C) error

	// BaseCommand returns the sentinel representing the initial state.
	// It is never executed, undone or redone.
	BaseCommand() C
}

// StrategyFuncs adapts plain functions to a Strategy.
// Nil Undo or Redo functions are treated as no-ops.
type StrategyFuncs[C comparable] struct {
	ExecuteFunc func(cmd C) error
	UndoFunc    func(cmd C) error
	RedoFunc    func(cmd C) error
	Base        C
}

// Execute implements Strategy.
func (s StrategyFuncs[C]) Execute(cmd C) error {
	if s.ExecuteFunc == nil {
		return nil
	}
	return s.ExecuteFunc(cmd)
}

// Undo implements Strategy.
func (s StrategyFuncs[C]) Undo(cmd C) error {
	if s.UndoFunc == nil {
		return nil
	}
	return s.UndoFunc(cmd)
}

// Redo implements Strategy.
func (s StrategyFuncs[C]) Redo(cmd C) error {
	if s.RedoFunc == nil {
		return nil
	}
	return s.RedoFunc(cmd)
}

// BaseCommand implements Strategy.
func (s StrategyFuncs[C]) BaseCommand() C {
	return s.Base
}
