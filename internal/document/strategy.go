package document

import (
	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/engine/history"
)

// Strategy applies document commands for a history.History.
type Strategy struct {
	doc    *Document
	logger *zap.Logger
}

var _ history.Strategy[Command] = (*Strategy)(nil)

// NewStrategy creates a strategy editing doc. A nil logger disables
// logging.
func NewStrategy(doc *Document, logger *zap.Logger) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategy{doc: doc, logger: logger}
}

// Document returns the edited document.
func (s *Strategy) Document() *Document {
	return s.doc
}

// Execute implements history.Strategy.
func (s *Strategy) Execute(cmd Command) error {
	s.logger.Debug("execute", zap.String("command", cmd.Description()))
	return cmd.Execute(s.doc)
}

// Undo implements history.Strategy.
func (s *Strategy) Undo(cmd Command) error {
	s.logger.Debug("undo", zap.String("command", cmd.Description()))
	return cmd.Undo(s.doc)
}

// Redo implements history.Strategy.
func (s *Strategy) Redo(cmd Command) error {
	s.logger.Debug("redo", zap.String("command", cmd.Description()))
	return cmd.Redo(s.doc)
}

// BaseCommand implements history.Strategy.
func (s *Strategy) BaseCommand() Command {
	return NewBaseCommand()
}
