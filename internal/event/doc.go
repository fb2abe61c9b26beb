// Package event is a small synchronous publish/subscribe bus.
//
// Publish runs the matching handlers on the caller's goroutine, ordered by
// priority, and returns once they are done. One handler failing or
// panicking does not keep the others from running; every failure is logged
// and returned as a *DeliveryError inside a joined error.
//
//	bus := event.NewBus(event.WithLogger(logger))
//	sub, err := bus.Subscribe("history.**", event.Typed(func(ctx context.Context, evt event.Event[Payload]) error {
//	    ...
//	}), event.WithPriority(event.PriorityLow))
//	...
//	err = bus.Publish(ctx, event.NewEvent("history.changed", payload, "history"))
//
// A handler must not publish to a topic it is itself subscribed to.
package event
