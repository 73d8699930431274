package errors

import (
	"errors"
	"fmt"
)

// KernelBridgeError is the base interface for all bridge errors.
type KernelBridgeError interface {
	error
	IsKernelBridgeError() bool
}

// Compile-time verification that all error types implement KernelBridgeError.
var (
	_ KernelBridgeError = (*SpawnError)(nil)
	_ KernelBridgeError = (*WriteError)(nil)
	_ KernelBridgeError = (*ReadError)(nil)
	_ KernelBridgeError = (*InvalidJSONError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotStarted indicates the bridge was used before the kernel
	// process was launched.
	ErrNotStarted = errors.New("kernel not started")

	// ErrExited indicates the kernel process has terminated, detected
	// either before sending a request or as end-of-stream on stdout.
	ErrExited = errors.New("kernel process exited")

	// ErrAlreadyStarted indicates Start was called on a running bridge.
	ErrAlreadyStarted = errors.New("kernel already started")

	// ErrClosed indicates the bridge has been closed and cannot be
	// reused. Create a new one with NewClient().
	ErrClosed = errors.New("bridge closed: bridges are single-use, create a new one with NewClient()")
)

// SpawnError indicates the kernel process could not be created, or a
// stdio pipe could not be captured after spawning.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn kernel: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsKernelBridgeError implements KernelBridgeError.
func (e *SpawnError) IsKernelBridgeError() bool { return true }

// WriteError indicates writing a request line to the kernel's stdin
// failed. The pipe state is unknown afterwards; the bridge must be
// torn down and relaunched.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write to kernel stdin: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsKernelBridgeError implements KernelBridgeError.
func (e *WriteError) IsKernelBridgeError() bool { return true }

// ReadError indicates reading a response line from the kernel's stdout
// failed with an I/O error (as opposed to a clean end-of-stream, which
// surfaces as ErrExited).
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read kernel stdout: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsKernelBridgeError implements KernelBridgeError.
func (e *ReadError) IsKernelBridgeError() bool { return true }

// InvalidJSONError indicates a response line failed to parse as JSON.
// A malformed line may mean the stream is corrupted, so it is never
// silently skipped; the call fails instead. The offending raw line is
// preserved for diagnostics.
type InvalidJSONError struct {
	RawData string
	Err     error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("kernel returned invalid json: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// IsKernelBridgeError implements KernelBridgeError.
func (e *InvalidJSONError) IsKernelBridgeError() bool { return true }
