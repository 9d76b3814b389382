package channel

import (
	"container/heap"
	"sync"
	"time"

	"github.com/chris-alexander-pop/integration-bus/pkg/envelope"
)

// Comparator reports whether a should be received before b, all else
// equal. DefaultComparator orders by descending priority header.
type Comparator func(a, b *envelope.Envelope) bool

// priorityOf extracts the priority header as an int, defaulting to 0 when
// absent or of an unexpected type.
func priorityOf(e *envelope.Envelope) int {
	v, ok := e.Header(envelope.HeaderPriority)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

// DefaultComparator orders envelopes by descending priority header value
// (missing header treated as 0).
func DefaultComparator(a, b *envelope.Envelope) bool {
	return priorityOf(a) > priorityOf(b)
}

// pqItem wraps an envelope with the monotonic enqueue sequence used as a
// FIFO tiebreaker. The sequence lives only in this wrapper, inside the
// heap, so it never appears in the envelope's headers and a consumer
// never observes it.
type pqItem struct {
	env      *envelope.Envelope
	sequence int64
	index    int
}

// PriorityChannel is a Pollable specialization of QueueChannel: envelopes
// are received in Comparator order, with enqueue order as the tiebreaker
// among envelopes the Comparator considers equal.
type PriorityChannel struct {
	name       string
	capacity   int
	comparator Comparator

	mu       sync.Mutex
	items    []*pqItem
	sequence int64
	notEmpty chan struct{}
	notFull  chan struct{}
}

// NewPriorityChannel creates a PriorityChannel. capacity <= 0 means
// unbounded. A nil comparator uses DefaultComparator.
func NewPriorityChannel(name string, capacity int, comparator Comparator) *PriorityChannel {
	if comparator == nil {
		comparator = DefaultComparator
	}
	return &PriorityChannel{
		name:       name,
		capacity:   capacity,
		comparator: comparator,
		notEmpty:   make(chan struct{}, 1),
		notFull:    make(chan struct{}, 1),
	}
}

// Name returns the channel's registered name.
func (c *PriorityChannel) Name() string { return c.name }

// Send enqueues e, blocking up to timeout if the channel is bounded and at
// capacity.
func (c *PriorityChannel) Send(e *envelope.Envelope, timeout time.Duration) (bool, error) {
	ctx, cancel := deadlineContext(timeout)
	defer cancel()

	for {
		c.mu.Lock()
		if c.capacity <= 0 || len(c.items) < c.capacity {
			c.sequence++
			heap.Push(c, &pqItem{env: e, sequence: c.sequence})
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

// Receive dequeues the highest-priority (then oldest) envelope, blocking up
// to timeout if the channel is empty.
func (c *PriorityChannel) Receive(timeout time.Duration) (*envelope.Envelope, bool) {
	ctx, cancel := deadlineContext(timeout)
	defer cancel()

	for {
		c.mu.Lock()
		if len(c.items) > 0 {
			item := heap.Pop(c).(*pqItem)
			remaining := len(c.items)
			c.mu.Unlock()
			notify(c.notFull)
			if remaining > 0 {
				notify(c.notEmpty)
			}
			return item.env, true
		}
		c.mu.Unlock()

		select {
		case <-c.notEmpty:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Size returns the number of envelopes currently queued.
func (c *PriorityChannel) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// container/heap.Interface implementation. These assume the caller already
// holds c.mu; they are only ever invoked from inside Send/Receive via
// heap.Push/heap.Pop while the lock is held.

func (c *PriorityChannel) Len() int { return len(c.items) }

func (c *PriorityChannel) Less(i, j int) bool {
	a, b := c.items[i], c.items[j]
	aBeforeB := c.comparator(a.env, b.env)
	bBeforeA := c.comparator(b.env, a.env)
	if aBeforeB != bBeforeA {
		return aBeforeB
	}
	return a.sequence < b.sequence
}

func (c *PriorityChannel) Swap(i, j int) {
	c.items[i], c.items[j] = c.items[j], c.items[i]
	c.items[i].index = i
	c.items[j].index = j
}

func (c *PriorityChannel) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(c.items)
	c.items = append(c.items, item)
}

func (c *PriorityChannel) Pop() interface{} {
	old := c.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	c.items = old[:n-1]
	return item
}
