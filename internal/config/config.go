// Package config provides configuration types for the kernel bridge.
package config

import (
	"context"
	"io"
	"log/slog"
)

// Transport defines the interface for kernel process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation is subprocess.KernelProcess, which spawns
// the kernel as a child process and captures its stdio pipes. Custom
// transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the kernel process and captures its pipes.
	// This is called before any lines are written or read.
	Start(ctx context.Context) error

	// WriteLine writes one request line to the kernel's stdin.
	// A trailing newline is appended if missing.
	WriteLine(data []byte) error

	// ReadLine reads the next line from the kernel's stdout, without
	// the trailing newline. It returns io.EOF when the kernel closes
	// its output. The returned slice is only valid until the next
	// ReadLine call.
	ReadLine() ([]byte, error)

	// Alive reports whether the kernel process is still running,
	// without blocking.
	Alive() bool

	// Close terminates the kernel process and releases the pipes.
	// It's safe to call Close multiple times.
	Close() error
}

// Options configures the kernel bridge.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// CommandPath is the explicit path to the kernel interpreter or
	// executable. If empty, the interpreter is resolved via the
	// KERNEL_BRIDGE_PYTHON environment variable, a repo-relative
	// .venv probe, and finally PATH.
	CommandPath string

	// Args is the argument list passed to the kernel command, e.g.
	// {"-m", "myapp.rpc_server"} to invoke a Python module entry point.
	Args []string

	// Cwd sets the working directory for the kernel process.
	// If empty, the current working directory is used.
	Cwd string

	// Env provides additional environment variables for the kernel
	// process, merged over the host environment.
	Env map[string]string

	// StderrWriter receives the kernel's stderr output.
	// If nil, stderr is passed through to the host's own stderr so
	// kernel diagnostics stay visible to the operator.
	StderrWriter io.Writer

	// Stderr is an optional callback invoked for each stderr line.
	// When set, stderr is scanned line by line; lines are still
	// forwarded to StderrWriter (or the host's stderr).
	Stderr func(string)

	// Transport allows injecting a custom transport implementation.
	// If nil, the default subprocess transport is created automatically.
	Transport Transport
}
