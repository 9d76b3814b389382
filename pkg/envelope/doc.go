// Package envelope defines the immutable message record that flows through
// the bus: a payload of arbitrary type plus a header map used for
// correlation, priority, sequence tracking, and adapter-specific metadata.
//
// Envelopes are built once and never mutated. Deriving a modified copy goes
// through Builder, which reuses the source payload by reference and
// produces a fresh header map; the source Envelope is left untouched.
//
// Four header names are transient: id, timestamp, replyChannel, and
// errorChannel. id and timestamp are additionally protected — Build assigns
// them automatically when absent and silently ignores caller attempts to
// overwrite them, so every Envelope carries a unique id and a monotonically
// non-decreasing timestamp. replyChannel and errorChannel are ordinary,
// caller-settable headers; "transient" for them means only that a
// HeaderMapper never maps them across a transport boundary (see
// pkg/headermapper), not that Build manages their values.
//
// Usage:
//
//	e := envelope.NewBuilder("hello").WithHeader("priority", 9).Build()
//	e2 := envelope.Derive(e).WithHeader("priority", 1).Build()
package envelope
