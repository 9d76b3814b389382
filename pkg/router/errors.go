package router

import (
	"fmt"

	"github.com/chris-alexander-pop/integration-bus/pkg/errors"
)

// Error codes surfaced by Router.Handle.
const (
	CodeResolution = "ROUTER_RESOLUTION_FAILED"
	CodeDelivery   = "ROUTER_DELIVERY_FAILED"
	CodeConversion = "ROUTER_CONVERSION_FAILED"
	CodeAmbiguity  = "ROUTER_AMBIGUITY"
)

// ErrResolution reports that key did not resolve to a channel and
// resolutionRequired is true.
func ErrResolution(key string, cause error) *errors.AppError {
	return errors.New(CodeResolution, "could not resolve channel for key: "+key, cause)
}

// ErrDelivery reports that no destination was resolved and no
// defaultOutputChannel is configured, or that a destination send failed
// with ignoreSendFailures false.
func ErrDelivery(message string, cause error) *errors.AppError {
	return errors.New(CodeDelivery, message, cause)
}

// ErrConversion reports that a router key was of a type the resolution
// pipeline cannot coerce to a channel name.
func ErrConversion(key interface{}) *errors.AppError {
	return errors.New(CodeConversion, fmt.Sprintf("unsupported return type for router key: %T", key), nil)
}

// ErrAmbiguity reports that resolving key would push the destination count
// past the router's MaxDestinations cap.
func ErrAmbiguity(key string, max int) *errors.AppError {
	return errors.New(CodeAmbiguity, fmt.Sprintf("resolving key %q would exceed the cap of %d destinations", key, max), nil)
}
