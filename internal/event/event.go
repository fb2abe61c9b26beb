package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/event/topic"
)

// Event is a published message. The bus routes it by Topic and passes the
// value to handlers as is.
type Event[T any] struct {
	Topic   topic.Topic
	Payload T

	ID     string
	Source string
	Time   time.Time
}

// NewEvent stamps payload with a fresh id and the current time.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Topic:   t,
		Payload: payload,
		ID:      uuid.NewString(),
		Source:  source,
		Time:    time.Now(),
	}
}

func (e Event[T]) route() topic.Topic { return e.Topic }

// routed is satisfied by every Event instantiation and nothing else.
type routed interface {
	route() topic.Topic
}
