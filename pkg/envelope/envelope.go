package envelope

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Reserved header names, stable and case-sensitive.
const (
	HeaderID             = "id"
	HeaderTimestamp      = "timestamp"
	HeaderReplyChannel   = "replyChannel"
	HeaderErrorChannel   = "errorChannel"
	HeaderPriority       = "priority"
	HeaderCorrelationID  = "correlationId"
	HeaderSequenceNumber = "sequenceNumber"
	HeaderSequenceSize   = "sequenceSize"
)

// transientHeaders are never copied to, or mapped from, an external
// transport by a HeaderMapper (pkg/headermapper).
var transientHeaders = map[string]bool{
	HeaderID:           true,
	HeaderTimestamp:    true,
	HeaderReplyChannel: true,
	HeaderErrorChannel: true,
}

// protectedHeaders are additionally immune to caller overwrite: Build
// assigns them when absent and ignores any value a builder call tried to
// set for them.
var protectedHeaders = map[string]bool{
	HeaderID:        true,
	HeaderTimestamp: true,
}

// IsTransient reports whether name is one of the four transient header
// names that a HeaderMapper must never map across a transport boundary.
func IsTransient(name string) bool {
	return transientHeaders[name]
}

// Envelope is an immutable message: an opaque payload plus a header map.
// The zero value is not usable; construct via NewBuilder or Build.
type Envelope struct {
	payload interface{}
	headers map[string]interface{}
}

// Payload returns the envelope's payload.
func (e *Envelope) Payload() interface{} { return e.payload }

// Header returns the value of the named header and whether it was present.
func (e *Envelope) Header(name string) (interface{}, bool) {
	v, ok := e.headers[name]
	return v, ok
}

// Headers returns a defensive copy of the header map. Callers must not rely
// on mutating the result to affect the envelope; it never does.
func (e *Envelope) Headers() map[string]interface{} {
	out := make(map[string]interface{}, len(e.headers))
	for k, v := range e.headers {
		out[k] = v
	}
	return out
}

// ID returns the envelope's id header.
func (e *Envelope) ID() string {
	v, _ := e.headers[HeaderID].(string)
	return v
}

// Timestamp returns the envelope's timestamp header.
func (e *Envelope) Timestamp() time.Time {
	v, _ := e.headers[HeaderTimestamp].(time.Time)
	return v
}

// lastNanos ratchets envelope timestamps so that Timestamp() is
// monotonically non-decreasing across every construction in the process,
// even under rapid back-to-back Build calls that land within the same
// clock tick.
var lastNanos int64

func nextTimestamp() time.Time {
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastNanos)
		next := now
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastNanos, last, next) {
			return time.Unix(0, next)
		}
	}
}

// Build constructs a new Envelope in one step, equivalent to
// NewBuilder(payload).WithHeaders(headers).Build().
func Build(payload interface{}, headers map[string]interface{}) *Envelope {
	return NewBuilder(payload).WithHeaders(headers).Build()
}

// Builder accumulates header changes before producing a new, independent
// Envelope via Build. A Builder is not safe for concurrent use.
type Builder struct {
	payload interface{}
	headers map[string]interface{}
}

// NewBuilder starts a builder for a fresh envelope around payload.
func NewBuilder(payload interface{}) *Builder {
	return &Builder{payload: payload, headers: make(map[string]interface{})}
}

// Derive seeds a builder with source's payload (by reference) and headers,
// excluding id and timestamp — Build assigns those fresh, so the derived
// envelope never carries the source's identity or construction time.
// replyChannel and errorChannel, being ordinary headers, are copied as-is.
func Derive(source *Envelope) *Builder {
	b := NewBuilder(source.payload)
	for k, v := range source.headers {
		if protectedHeaders[k] {
			continue
		}
		b.headers[k] = v
	}
	return b
}

// WithHeader sets a single header, returning the same builder for chaining.
// Attempts to set a protected header (id, timestamp) are silently ignored.
func (b *Builder) WithHeader(name string, value interface{}) *Builder {
	if protectedHeaders[name] {
		return b
	}
	b.headers[name] = value
	return b
}

// WithHeaders merges m into the builder's headers, overwriting existing
// values. Protected headers in m are silently ignored.
func (b *Builder) WithHeaders(m map[string]interface{}) *Builder {
	for k, v := range m {
		b.WithHeader(k, v)
	}
	return b
}

// WithHeadersIfAbsent merges m into the builder's headers without
// overwriting headers already set. Protected headers in m are silently
// ignored.
func (b *Builder) WithHeadersIfAbsent(m map[string]interface{}) *Builder {
	for k, v := range m {
		if protectedHeaders[k] {
			continue
		}
		if _, exists := b.headers[k]; exists {
			continue
		}
		b.headers[k] = v
	}
	return b
}

// RemoveHeader drops a header from the builder's working set.
func (b *Builder) RemoveHeader(name string) *Builder {
	delete(b.headers, name)
	return b
}

// PushSequenceDetails stamps correlationId, sequenceNumber, and
// sequenceSize, the headers a Router sets on each fan-out destination when
// apply-sequence is enabled.
func (b *Builder) PushSequenceDetails(correlationID string, number, size int) *Builder {
	b.headers[HeaderCorrelationID] = correlationID
	b.headers[HeaderSequenceNumber] = number
	b.headers[HeaderSequenceSize] = size
	return b
}

// Build produces a new Envelope. id and timestamp are assigned if absent;
// the returned Envelope is independent of the builder and of any source
// envelope it was derived from.
func (b *Builder) Build() *Envelope {
	h := make(map[string]interface{}, len(b.headers)+2)
	for k, v := range b.headers {
		h[k] = v
	}
	if _, ok := h[HeaderID]; !ok {
		h[HeaderID] = uuid.NewString()
	}
	if _, ok := h[HeaderTimestamp]; !ok {
		h[HeaderTimestamp] = nextTimestamp()
	}
	return &Envelope{payload: b.payload, headers: h}
}
