package event

import (
	"errors"
	"fmt"

	"github.com/dshills/rewind/internal/event/topic"
)

var (
	ErrInvalidEvent  = errors.New("event has no valid topic")
	ErrInvalidTopic  = errors.New("invalid topic pattern")
	ErrNilHandler    = errors.New("nil handler")
	ErrNotSubscribed = errors.New("not subscribed")
	ErrHandlerPanic  = errors.New("handler panicked")
)

// DeliveryError reports one handler that failed on one event. For a panic
// Err is ErrHandlerPanic and Recovered holds the panic value.
type DeliveryError struct {
	Subscription string
	Topic        topic.Topic
	Err          error
	Recovered    any
}

func (e *DeliveryError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("%s: subscription %s panicked: %v", e.Topic, e.Subscription, e.Recovered)
	}
	return fmt.Sprintf("%s: subscription %s: %v", e.Topic, e.Subscription, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
