package channel

import (
	"sync"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
)

// QueueChannel is a Pollable channel backed by a FIFO work queue.
// A capacity of 0 means unbounded.
type QueueChannel struct {
	name     string
	capacity int

	mu       sync.Mutex
	items    []*envelope.Envelope
	notEmpty chan struct{}
	notFull  chan struct{}
}

// NewQueueChannel creates a QueueChannel with the given name and capacity.
// capacity <= 0 means unbounded.
func NewQueueChannel(name string, capacity int) *QueueChannel {
	return &QueueChannel{
		name:     name,
		capacity: capacity,
		notEmpty: make(chan struct{}, 1),
		notFull:  make(chan struct{}, 1),
	}
}

// Name returns the channel's registered name.
func (c *QueueChannel) Name() string { return c.name }

// Send enqueues e, blocking up to timeout if the channel is bounded and
// full.
func (c *QueueChannel) Send(e *envelope.Envelope, timeout time.Duration) (bool, error) {
	ctx, cancel := deadlineContext(timeout)
	defer cancel()

	for {
		c.mu.Lock()
		if c.capacity <= 0 || len(c.items) < c.capacity {
			c.items = append(c.items, e)
			spare := c.capacity > 0 && len(c.items) < c.capacity
			c.mu.Unlock()
			notify(c.notEmpty)
			if spare {
				// Chain the wakeup so a second blocked sender is not
				// stranded by the coalesced signal.
				notify(c.notFull)
			}
			return true, nil
		}
		c.mu.Unlock()

		select {
		case <-c.notFull:
		case <-ctx.Done():
			return false, nil
		}
	}
}

// Receive dequeues the oldest envelope, blocking up to timeout if the
// channel is empty.
func (c *QueueChannel) Receive(timeout time.Duration) (*envelope.Envelope, bool) {
	ctx, cancel := deadlineContext(timeout)
	defer cancel()

	for {
		c.mu.Lock()
		if len(c.items) > 0 {
			e := c.items[0]
			c.items = c.items[1:]
			remaining := len(c.items)
			c.mu.Unlock()
			notify(c.notFull)
			if remaining > 0 {
				notify(c.notEmpty)
			}
			return e, true
		}
		c.mu.Unlock()

		select {
		case <-c.notEmpty:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Len returns the number of envelopes currently queued.
func (c *QueueChannel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
