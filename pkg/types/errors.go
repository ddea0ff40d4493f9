package types

import "fmt"

// PlatformError represents a failure attributable to a single upstream:
// HTTP non-2xx, connection error, decode failure, or timeout.
type PlatformError struct {
	Platform string
	Message  string
	Err      error // underlying cause, may be nil
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Platform, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError creates a PlatformError with a formatted message.
func NewPlatformError(platform string, format string, args ...any) *PlatformError {
	return &PlatformError{
		Platform: platform,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WrapPlatformError converts an arbitrary error into a PlatformError,
// preserving the cause for errors.Is/As.
func WrapPlatformError(platform string, err error) *PlatformError {
	return &PlatformError{
		Platform: platform,
		Message:  err.Error(),
		Err:      err,
	}
}

// InvalidArgumentError represents a caller mistake: unknown platform in a
// point operation, out-of-range parameter, missing required field. It always
// propagates to the caller and is never folded into a federated errors list.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// NewInvalidArgument creates an InvalidArgumentError with a formatted message.
func NewInvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// InvariantViolation indicates a bug: a value that the adapter layer should
// have normalized reached construction out of range.
type InvariantViolation struct {
	Message string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Message
}

// NewInvariantViolation creates an InvariantViolation with a formatted message.
func NewInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Message: fmt.Sprintf(format, args...)}
}
