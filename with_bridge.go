package kernelbridge

import (
	"context"
	"fmt"
)

// WithBridge manages bridge lifecycle with automatic cleanup.
//
// This helper creates a client, starts the kernel with the provided
// options, executes the callback, and ensures the kernel is torn down
// via Close() when done.
//
// The callback receives a started Client that is ready for Call. If the
// callback returns an error, it is returned to the caller. If Close()
// fails, a warning is logged but does not override the callback's error.
//
// Example usage:
//
//	err := kernelbridge.WithBridge(ctx, func(c kernelbridge.Client) error {
//	    resp, err := c.Call(ctx, "health/check", map[string]any{})
//	    if err != nil {
//	        return err
//	    }
//	    // process resp...
//	    return nil
//	},
//	    kernelbridge.WithArgs("-m", "myapp.rpc_server"),
//	    kernelbridge.WithLogger(log),
//	)
func WithBridge(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := NewClient()
	if err := client.Start(ctx, opts...); err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close bridge", "error", closeErr)
		}
	}()

	return fn(client)
}
