package event

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/event/topic"
)

// Bus delivers events synchronously to subscribed handlers.
type Bus interface {
	// Publish runs every matching handler before returning. All handlers
	// run even when some fail; the failures come back joined as
	// *DeliveryError values.
	Publish(ctx context.Context, event any) error

	Subscribe(pattern topic.Topic, h Handler, opts ...SubscribeOption) (*Subscription, error)
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscribeOption) (*Subscription, error)

	// Unsubscribe cancels sub and forgets it. It returns ErrNotSubscribed
	// when sub is not registered on this bus.
	Unsubscribe(sub *Subscription) error

	Stats() Stats
}

// Stats counts bus activity since creation.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Failed      uint64
	Panicked    uint64
	Subscribers int
}

// BusOption configures NewBus.
type BusOption func(*bus)

// WithLogger logs handler failures to l.
func WithLogger(l *zap.Logger) BusOption {
	return func(b *bus) {
		if l != nil {
			b.logger = l
		}
	}
}

type bus struct {
	logger *zap.Logger

	mu   sync.RWMutex
	subs []*Subscription // sorted by priority, stable

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

// NewBus returns an empty bus.
func NewBus(opts ...BusOption) Bus {
	b := &bus{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *bus) Subscribe(pattern topic.Topic, h Handler, opts ...SubscribeOption) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if h == nil {
		return nil, ErrNilHandler
	}
	sub := newSubscription(pattern, h, opts)

	b.mu.Lock()
	defer b.mu.Unlock()
	// Insert after every subscription of equal or higher priority.
	at := len(b.subs)
	for i, s := range b.subs {
		if s.priority > sub.priority {
			at = i
			break
		}
	}
	b.subs = slices.Insert(b.subs, at, sub)
	return sub, nil
}

func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscribeOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

func (b *bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrNotSubscribed
	}
	sub.Cancel()
	if !b.forget(sub) {
		return ErrNotSubscribed
	}
	return nil
}

func (b *bus) forget(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.subs, sub)
	if i < 0 {
		return false
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return true
}

func (b *bus) Publish(ctx context.Context, event any) error {
	r, ok := event.(routed)
	if !ok || !r.route().IsValid() {
		return ErrInvalidEvent
	}
	t := r.route()
	b.published.Add(1)

	// Handlers may subscribe or unsubscribe, so deliver from a copy.
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if !sub.wants(t, event) {
			continue
		}
		if err := b.deliver(ctx, sub, t, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.delivered.Add(1)
		if sub.once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

func (b *bus) deliver(ctx context.Context, sub *Subscription, t topic.Topic, event any) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.panicked.Add(1)
		b.logger.Error("event handler panicked",
			zap.Stringer("topic", t),
			zap.String("subscription", sub.id),
			zap.Any("panic", r))
		err = &DeliveryError{Subscription: sub.id, Topic: t, Err: ErrHandlerPanic, Recovered: r}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.failed.Add(1)
		b.logger.Warn("event handler failed",
			zap.Stringer("topic", t),
			zap.String("subscription", sub.id),
			zap.Error(herr))
		return &DeliveryError{Subscription: sub.id, Topic: t, Err: herr}
	}
	return nil
}

func (b *bus) Stats() Stats {
	b.mu.RLock()
	n := 0
	for _, s := range b.subs {
		if s.Active() {
			n++
		}
	}
	b.mu.RUnlock()

	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Failed:      b.failed.Load(),
		Panicked:    b.panicked.Load(),
		Subscribers: n,
	}
}
