package app

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/event"
)

// History is the history type edited by a session.
type History = history.History[document.Command]

// Descriptor describes one entry of a session history.
type Descriptor = history.Descriptor[document.Command]

// Options configures a session.
type Options struct {
	// Config is the configuration. Defaults to config.Default().
	Config *config.Config

	// LogOutput receives log output when Logger is nil. Defaults to stderr.
	LogOutput io.Writer

	// Logger overrides the logger built from the configuration.
	Logger *zap.Logger
}

// Session owns one document and its history, plus the services observing
// them. A session is not safe for concurrent use; callers serialize access,
// typically on one UI or script loop.
type Session struct {
	cfg     *config.Config
	logger  *zap.Logger
	level   zap.AtomicLevel
	bus     event.Bus
	metrics *Metrics
	names   *history.NameRegistry
	doc     *document.Document
	history *History
}

// NewSession creates a session with an empty document.
func NewSession(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Session{
		cfg:   cfg.Clone(),
		names: history.NewNameRegistry(),
		doc:   document.New(),
	}

	if opts.Logger != nil {
		s.logger = opts.Logger
		s.level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		logger, level, err := NewLogger(cfg.Logging, opts.LogOutput)
		if err != nil {
			return nil, err
		}
		s.logger, s.level = logger, level
	}

	s.bus = event.NewBus(event.WithLogger(s.logger.Named("event")))
	if cfg.Metrics.Enabled {
		s.metrics = NewMetrics(cfg.Metrics.Namespace)
		if err := s.metrics.Attach(s.bus); err != nil {
			return nil, err
		}
		s.metrics.Capacity.Set(float64(cfg.History.Capacity))
	}

	notifier := history.NewBusNotifier[document.Command](s.bus,
		history.WithSource("session"),
		history.WithNotifierLogger(s.logger.Named("event")),
	)
	h, err := history.New[document.Command](
		document.NewStrategy(s.doc, s.logger.Named("document")),
		notifier,
		history.WithCapacity(cfg.History.Capacity),
		history.WithLogger(s.logger.Named("history")),
		history.WithNameRegistry(s.names),
	)
	if err != nil {
		return nil, err
	}
	s.history = h

	s.logger.Debug("session created", zap.Int("capacity", cfg.History.Capacity))
	return s, nil
}

// Config returns the active configuration. Callers must not modify it.
func (s *Session) Config() *config.Config { return s.cfg }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.logger }

// Bus returns the event bus history notifications are published on.
func (s *Session) Bus() event.Bus { return s.bus }

// Metrics returns the metrics, or nil when they are disabled.
func (s *Session) Metrics() *Metrics { return s.metrics }

// Names returns the name registry used for command display names.
func (s *Session) Names() *history.NameRegistry { return s.names }

// Document returns the edited document.
func (s *Session) Document() *document.Document { return s.doc }

// History returns the command history.
func (s *Session) History() *History { return s.history }

// Execute runs cmd and records it.
func (s *Session) Execute(cmd document.Command) error {
	return s.observe("execute", s.history.Execute(cmd))
}

// Undo reverses the newest command.
func (s *Session) Undo() error {
	return s.observe("undo", s.history.Undo())
}

// Redo replays the nearest undone command.
func (s *Session) Redo() error {
	return s.observe("redo", s.history.Redo())
}

// JumpTo moves the history to d.
func (s *Session) JumpTo(d *Descriptor) error {
	return s.observe("jump", s.history.JumpTo(d))
}

// UndoUntil undoes commands up to and including d.
func (s *Session) UndoUntil(d *Descriptor) error {
	return s.observe("undo until", s.history.UndoUntil(d))
}

// RedoUntil redoes commands up to and including d.
func (s *Session) RedoUntil(d *Descriptor) error {
	return s.observe("redo until", s.history.RedoUntil(d))
}

// Clear forgets the history. The document is kept as it is.
func (s *Session) Clear() {
	s.history.Clear()
}

// Entry returns the i-th entry of the history listing, the base command
// being entry 0.
func (s *Session) Entry(i int) (*Descriptor, bool) {
	list := s.history.History()
	if i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// ApplyConfig switches to cfg. A smaller capacity trims the history at
// once. Metrics settings only take effect for new sessions.
func (s *Session) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := SetLevel(s.level, cfg.Logging.Level); err != nil {
		return err
	}
	if cfg.History.Capacity != s.history.Capacity() {
		if err := s.history.SetCapacity(cfg.History.Capacity); err != nil {
			return err
		}
		s.history.Discard()
	}
	s.cfg = cfg.Clone()

	s.logger.Info("configuration applied",
		zap.Int("capacity", cfg.History.Capacity),
		zap.String("log_level", cfg.Logging.Level),
	)
	return nil
}

// Close releases the services attached to the session.
func (s *Session) Close() error {
	if s.metrics != nil {
		s.metrics.Detach(s.bus)
	}
	_ = s.logger.Sync()
	return nil
}

func (s *Session) observe(op string, err error) error {
	if err == nil {
		return nil
	}
	if s.metrics != nil {
		s.metrics.ObserveError(err)
	}
	s.logger.Info("history operation failed", zap.String("op", op), zap.Error(err))
	return err
}
