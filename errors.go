package kernelbridge

import "github.com/krswll/kernel-bridge-go/internal/errors"

// Re-export error types from internal package

// SpawnError indicates the kernel process could not be created, or a
// stdio pipe could not be captured after spawning.
type SpawnError = errors.SpawnError

// WriteError indicates writing a request line to the kernel's stdin failed.
type WriteError = errors.WriteError

// ReadError indicates reading a response line from the kernel's stdout failed.
type ReadError = errors.ReadError

// InvalidJSONError indicates a response line failed to parse as JSON.
type InvalidJSONError = errors.InvalidJSONError

// KernelBridgeError is the base interface for all bridge errors.
type KernelBridgeError = errors.KernelBridgeError

// Re-export sentinel errors from internal package.
var (
	// ErrNotStarted indicates the bridge was used before the kernel was launched.
	ErrNotStarted = errors.ErrNotStarted

	// ErrExited indicates the kernel process has terminated.
	ErrExited = errors.ErrExited

	// ErrAlreadyStarted indicates Start was called on a running bridge.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrClosed indicates the bridge has been closed and cannot be reused.
	ErrClosed = errors.ErrClosed
)
