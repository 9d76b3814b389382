package channel

import (
	"sync"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
)

// DirectChannel is a Subscribable channel that dispatches synchronously on
// the sender's goroutine. Send tries each subscriber in subscription order
// and stops at the first one that accepts the envelope without error
// (broadcast-until-success); if every subscriber fails, the failure
// propagates to the sender.
type DirectChannel struct {
	name string

	mu          sync.RWMutex
	subscribers []directSubscriber
	nextID      uint64
}

type directSubscriber struct {
	id      uint64
	handler Handler
}

// NewDirectChannel creates a DirectChannel with the given name.
func NewDirectChannel(name string) *DirectChannel {
	return &DirectChannel{name: name}
}

// Name returns the channel's registered name.
func (c *DirectChannel) Name() string { return c.name }

// Subscribe registers h to receive envelopes sent to this channel, in
// subscription order relative to other subscribers.
func (c *DirectChannel) Subscribe(h Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers = append(c.subscribers, directSubscriber{id: id, handler: h})
	return &directSubscription{channel: c, id: id}
}

func (c *DirectChannel) unsubscribe(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subscribers {
		if s.id == id {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return
		}
	}
}

// Send dispatches e to subscribers in subscription order, on the calling
// goroutine, stopping at the first one that returns a nil error. timeout is
// accepted for Channel conformance but unused: a DirectChannel blocks only
// as long as its handlers block.
func (c *DirectChannel) Send(e *envelope.Envelope, timeout time.Duration) (bool, error) {
	c.mu.RLock()
	subs := make([]directSubscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.RUnlock()

	if len(subs) == 0 {
		return false, ErrNoSubscribers(c.name)
	}

	var lastErr error
	for _, s := range subs {
		if err := s.handler(e); err != nil {
			lastErr = err
			continue
		}
		return true, nil
	}
	return false, ErrDispatchFailed(c.name, lastErr)
}

// directSubscription lets a subscriber stop receiving envelopes.
type directSubscription struct {
	channel *DirectChannel
	id      uint64
}

func (s *directSubscription) Unsubscribe() { s.channel.unsubscribe(s.id) }
