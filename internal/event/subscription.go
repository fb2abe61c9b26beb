package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/event/topic"
)

// Subscription is a handler registered on a topic pattern.
type Subscription struct {
	id       string
	pattern  topic.Topic
	handler  Handler
	priority Priority
	filter   func(event any) bool
	once     bool

	cancelled atomic.Bool
}

// SubscribeOption configures a Subscription.
type SubscribeOption func(*Subscription)

// WithPriority places the handler relative to others on the same event.
func WithPriority(p Priority) SubscribeOption {
	return func(s *Subscription) { s.priority = p }
}

// WithFilter skips events for which keep returns false.
func WithFilter(keep func(event any) bool) SubscribeOption {
	return func(s *Subscription) { s.filter = keep }
}

// WithOnce removes the subscription after its first successful delivery.
func WithOnce() SubscribeOption {
	return func(s *Subscription) { s.once = true }
}

func newSubscription(pattern topic.Topic, h Handler, opts []SubscribeOption) *Subscription {
	s := &Subscription{id: uuid.NewString(), pattern: pattern, handler: h}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the subscription in logs and errors.
func (s *Subscription) ID() string { return s.id }

// Pattern is the topic pattern the subscription matches.
func (s *Subscription) Pattern() topic.Topic { return s.pattern }

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool { return !s.cancelled.Load() }

// Cancel stops delivery. The bus drops the subscription lazily; Unsubscribe
// removes it at once.
func (s *Subscription) Cancel() { s.cancelled.Store(true) }

func (s *Subscription) wants(t topic.Topic, event any) bool {
	if !s.Active() || !t.Matches(s.pattern) {
		return false
	}
	return s.filter == nil || s.filter(event)
}
