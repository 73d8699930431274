package kernelbridge

import "context"

// Client is the public interface to the kernel bridge.
//
// A Client owns one kernel process and one RPC channel over its pipes.
// Calls are strictly one-in-flight: each Call blocks until the kernel's
// matching response arrives or the exchange fails.
//
// Lifecycle: clients are single-use. After Close(), create a new client
// with NewClient().
//
// Example usage:
//
//	client := NewClient()
//	defer client.Close()
//
//	err := client.Start(ctx,
//	    WithArgs("-m", "myapp.rpc_server"),
//	    WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Call(ctx, "conversations/list", map[string]any{"limit": 20})
type Client interface {
	// Start launches the kernel process and captures its pipes.
	// Must be called before Call. Returns SpawnError if the process
	// cannot be created.
	Start(ctx context.Context, opts ...Option) error

	// Call sends one JSON-RPC request and blocks until the response
	// with the matching id arrives. Unrelated lines on the kernel's
	// stdout are read and discarded. The response object is returned
	// verbatim; the shape of its result/error fields is a contract
	// between the caller and the kernel.
	Call(ctx context.Context, method string, params any) (map[string]any, error)

	// IsRunning reports whether the kernel process is alive, without
	// blocking.
	IsRunning() bool

	// Close terminates the kernel process and releases resources.
	// After Close(), the client cannot be reused. Safe to call
	// multiple times.
	Close() error
}

// NewClient creates a new kernel bridge client.
//
// The kernel is not launched until Start() is called with options:
//
//	client := NewClient()
//	err := client.Start(ctx, WithArgs("-m", "myapp.rpc_server"))
func NewClient() Client {
	return newClientImpl()
}
