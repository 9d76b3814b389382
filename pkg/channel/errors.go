package channel

import "github.com/chris-alexander-pop/integration-bus/pkg/errors"

// Error codes for channel operations.
const (
	CodeNoSubscribers      = "CHANNEL_NO_SUBSCRIBERS"
	CodeDispatchFailed     = "CHANNEL_DISPATCH_FAILED"
	CodeCapabilityMismatch = "CHANNEL_CAPABILITY_UNSUPPORTED"
)

// ErrNoSubscribers is returned by DirectChannel.Send when no handler is
// subscribed to accept the envelope.
func ErrNoSubscribers(name string) *errors.AppError {
	return errors.New(CodeNoSubscribers, "no subscribers registered on channel: "+name, nil)
}

// ErrDispatchFailed is returned by DirectChannel.Send when every subscriber
// returned an error.
func ErrDispatchFailed(name string, cause error) *errors.AppError {
	return errors.New(CodeDispatchFailed, "all subscribers failed to accept message on channel: "+name, cause)
}

// ErrCapabilityMismatch is returned when a Channel is asked to perform an
// operation its concrete subtype does not support (e.g. Receive on a
// Subscribable-only channel).
func ErrCapabilityMismatch(name, capability string) *errors.AppError {
	return errors.New(CodeCapabilityMismatch, "channel "+name+" does not support "+capability, nil)
}
