package resilience

import "github.com/chris-alexander-pop/integration-bus/pkg/errors"

// CodeCircuitOpen is the AppError code returned when a CircuitBreaker
// fast-fails a call.
const CodeCircuitOpen = "CIRCUIT_OPEN"

// ErrCircuitOpen reports that a circuit breaker is open and rejecting
// calls without invoking the protected function.
func ErrCircuitOpen(name string) *errors.AppError {
	return errors.New(CodeCircuitOpen, "circuit breaker open: "+name, nil)
}
