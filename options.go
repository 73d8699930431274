package kernelbridge

import (
	"io"
	"log/slog"

	"github.com/krswll/kernel-bridge-go/internal/config"
)

// BridgeOptions configures the behavior of the kernel bridge.
type BridgeOptions = config.Options

// Option configures BridgeOptions using the functional options pattern.
// This is the primary option type for configuring clients.
type Option func(*BridgeOptions)

// applyOptions applies functional options to a BridgeOptions struct.
func applyOptions(opts []Option) *BridgeOptions {
	options := &BridgeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *BridgeOptions) {
		o.Logger = logger
	}
}

// WithCommandPath sets the explicit kernel interpreter or executable.
// If not set, the interpreter is resolved via the KERNEL_BRIDGE_PYTHON
// environment variable, a repo-relative .venv probe, and PATH.
func WithCommandPath(path string) Option {
	return func(o *BridgeOptions) {
		o.CommandPath = path
	}
}

// WithArgs sets the argument list passed to the kernel command, e.g.
// WithArgs("-m", "myapp.rpc_server") to invoke a Python module entry point.
func WithArgs(args ...string) Option {
	return func(o *BridgeOptions) {
		o.Args = args
	}
}

// WithCwd sets the working directory for the kernel process.
func WithCwd(cwd string) Option {
	return func(o *BridgeOptions) {
		o.Cwd = cwd
	}
}

// WithEnv provides additional environment variables for the kernel
// process, merged over the host environment.
func WithEnv(env map[string]string) Option {
	return func(o *BridgeOptions) {
		o.Env = env
	}
}

// WithStderrWriter redirects the kernel's stderr to the given writer
// instead of the host's own stderr.
func WithStderrWriter(w io.Writer) Option {
	return func(o *BridgeOptions) {
		o.StderrWriter = w
	}
}

// WithStderr sets a callback invoked for each kernel stderr line.
// Lines are still forwarded to the stderr writer.
func WithStderr(fn func(string)) Option {
	return func(o *BridgeOptions) {
		o.Stderr = fn
	}
}

// WithTransport injects a custom transport implementation.
// If not set, the default subprocess transport is created automatically.
func WithTransport(t Transport) Option {
	return func(o *BridgeOptions) {
		o.Transport = t
	}
}
