package event

import "context"

// Handler receives events. The event is passed untyped; use Typed to get
// the payload without an assertion.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Typed wraps fn so it only sees events carrying a T payload. Other events
// on the same topic are ignored.
func Typed[T any](fn func(ctx context.Context, event Event[T]) error) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		e, ok := event.(Event[T])
		if !ok {
			return nil
		}
		return fn(ctx, e)
	})
}

// Priority orders handlers on one event; lower runs first, ties run in
// subscription order.
type Priority int

const (
	PriorityHigh   Priority = -10
	PriorityNormal Priority = 0
	PriorityLow    Priority = 10
)
