package registry

import "github.com/chris-alexander-pop/integration-bus/pkg/errors"

// Error codes surfaced by ChannelRegistry operations.
const (
	CodeNotFound     = "REGISTRY_NOT_FOUND"
	CodeAlreadyBound = "REGISTRY_ALREADY_BOUND"
	CodeArgument     = "REGISTRY_ARGUMENT"
	CodeBridgeLoop   = "REGISTRY_BRIDGE_LOOP"
)

// ErrNotFound reports that name has no binding of the requested kind.
func ErrNotFound(name string) *errors.AppError {
	return errors.New(CodeNotFound, "no channel registered under name: "+name, nil)
}

// ErrAlreadyBound reports a second inbound or outbound registration under
// a name that already has one; each name admits at most one of each.
func ErrAlreadyBound(name, kind string) *errors.AppError {
	return errors.New(CodeAlreadyBound, kind+" binding already exists for name: "+name, nil)
}

// ErrArgument reports registry misuse, such as tapping a name with no
// inbound binding.
func ErrArgument(message string) *errors.AppError {
	return errors.New(CodeArgument, message, nil)
}

// ErrBridgeLoop reports that bridging name would wire an outbound binding
// back to the same channel instance as its own inbound binding, which
// would dispatch every send straight back into itself.
func ErrBridgeLoop(name string) *errors.AppError {
	return errors.New(CodeBridgeLoop, "bridging name to itself would create a delivery loop: "+name, nil)
}
