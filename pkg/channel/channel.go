package channel

import (
	"context"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
)

// Handler processes an envelope delivered to a subscribed channel.
type Handler func(e *envelope.Envelope) error

// ReplyHandler is the reply-producing variant used by gateways and routers
// that need to send a response back through the same invocation.
type ReplyHandler func(e *envelope.Envelope) (*envelope.Envelope, error)

// Channel is the base capability every transport primitive implements:
// accepting envelopes for delivery.
type Channel interface {
	// Name returns the channel's registered name, or "" if anonymous.
	Name() string

	// Send delivers e. timeout bounds how long Send may block:
	// zero means "try once, don't wait"; negative means "wait indefinitely".
	// The returned bool reports whether the envelope was accepted.
	Send(e *envelope.Envelope, timeout time.Duration) (bool, error)
}

// Subscription cancels a Subscribe registration.
type Subscription interface {
	Unsubscribe()
}

// Subscribable channels dispatch synchronously, on the sender's goroutine,
// to registered handlers.
type Subscribable interface {
	Channel
	Subscribe(h Handler) Subscription
}

// Pollable channels decouple producers from consumers through an internal
// queue: Send enqueues, Receive dequeues, each independently timed out.
type Pollable interface {
	Channel
	// Receive dequeues an envelope. timeout bounds how long Receive may
	// block, with the same zero/negative conventions as Send. The returned
	// bool reports whether an envelope was available.
	Receive(timeout time.Duration) (*envelope.Envelope, bool)
}

// deadlineContext turns the Send/Receive timeout convention (zero: no
// wait, negative: wait indefinitely, positive: bounded wait) into a
// context.Context suitable for a single blocking select.
func deadlineContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout < 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), timeout)
}

// notify performs a non-blocking send of a wakeup signal, coalescing with
// any pending unread signal already in the channel.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
