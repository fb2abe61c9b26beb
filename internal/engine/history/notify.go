package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/event"
	"github.com/dshills/rewind/internal/event/topic"
)

// Kind identifies a history notification.
type Kind int

const (
	// Changed means the history was cleared, trimmed or wiped after a
	// replay failure.
	Changed Kind = iota
	// Executed means a new command was executed.
	Executed
	// Replayed means commands were undone or redone.
	Replayed
)

// Topics published by BusNotifier.
const (
	TopicChanged  topic.Topic = "history.changed"
	TopicExecuted topic.Topic = "history.command.executed"
	TopicReplayed topic.Topic = "history.command.replayed"

	// TopicAll matches every history notification.
	TopicAll topic.Topic = "history.**"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Executed:
		return "executed"
	case Replayed:
		return "replayed"
	default:
		return "unknown"
	}
}

// Topic returns the bus topic for the kind.
func (k Kind) Topic() topic.Topic {
	switch k {
	case Executed:
		return TopicExecuted
	case Replayed:
		return TopicReplayed
	default:
		return TopicChanged
	}
}

// Notification is posted after a state change. Subscribers re-query the
// history for its current state.
type Notification[C comparable] struct {
	Kind    Kind
	History *History[C]
}

// Notifier receives history notifications. It is called synchronously from
// the mutating operation and must not call back into the history.
type Notifier[C comparable] interface {
	Notify(n Notification[C])
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc[C comparable] func(n Notification[C])

// Notify implements Notifier.
func (f NotifierFunc[C]) Notify(n Notification[C]) {
	f(n)
}

// BusNotifier publishes notifications on an event bus as
// event.Event[Notification[C]] values.
type BusNotifier[C comparable] struct {
	bus    event.Bus
	source string
	logger *zap.Logger
}

// BusNotifierOption configures a BusNotifier.
type BusNotifierOption func(*busNotifierConfig)

type busNotifierConfig struct {
	source string
	logger *zap.Logger
}

// WithSource sets the event source. Defaults to "history".
func WithSource(source string) BusNotifierOption {
	return func(c *busNotifierConfig) {
		if source != "" {
			c.source = source
		}
	}
}

// WithNotifierLogger sets the logger used for publish failures.
func WithNotifierLogger(l *zap.Logger) BusNotifierOption {
	return func(c *busNotifierConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewBusNotifier creates a notifier that publishes on bus.
func NewBusNotifier[C comparable](bus event.Bus, opts ...BusNotifierOption) *BusNotifier[C] {
	cfg := busNotifierConfig{
		source: "history",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &BusNotifier[C]{
		bus:    bus,
		source: cfg.source,
		logger: cfg.logger,
	}
}

// Notify implements Notifier. Handler failures are logged, never returned
// to the history.
func (n *BusNotifier[C]) Notify(note Notification[C]) {
	evt := event.NewEvent(note.Kind.Topic(), note, n.source)
	if err := n.bus.Publish(context.Background(), evt); err != nil {
		n.logger.Warn("history notification delivery failed",
			zap.Stringer("kind", note.Kind),
			zap.Error(err),
		)
	}
}

// Subscribe registers fn for history notifications matching pattern.
func Subscribe[C comparable](bus event.Bus, pattern topic.Topic, fn func(Notification[C]), opts ...event.SubscribeOption) (*event.Subscription, error) {
	handler := event.Typed(func(_ context.Context, evt event.Event[Notification[C]]) error {
		fn(evt.Payload)
		return nil
	})
	return bus.Subscribe(pattern, handler, opts...)
}
