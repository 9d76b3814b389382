// Package channel provides the transport primitives envelopes move through:
// synchronous direct dispatch, a FIFO work queue, and a priority queue.
//
// Channel is the base capability (accepting envelopes). Subscribable adds
// synchronous fan-out to registered handlers; Pollable adds a
// producer/consumer queue a caller can Send to and Receive from
// independently. PriorityChannel is a Pollable specialization ordered by a
// Comparator with a FIFO tiebreaker.
//
// Usage:
//
//	direct := channel.NewDirectChannel("commands")
//	sub := direct.Subscribe(func(e *envelope.Envelope) error { return nil })
//	defer sub.Unsubscribe()
//	direct.Send(envelope.NewBuilder("do-it").Build(), 0)
package channel
