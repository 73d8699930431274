// Package kernelbridge provides a synchronous JSON-RPC bridge to a
// long-lived kernel child process.
//
// The bridge spawns the kernel (typically a Python RPC server), captures
// its stdin/stdout pipes, and exchanges one newline-terminated JSON-RPC
// message per line. Calls are strictly one-in-flight: each Call writes a
// single request and blocks until the line carrying the matching id
// arrives, discarding unrelated lines in between. The kernel's stderr is
// passed through to the host's own stderr so its diagnostics stay
// visible to the operator.
//
// # Basic Usage
//
//	client := kernelbridge.NewClient()
//	defer client.Close()
//
//	err := client.Start(ctx,
//	    kernelbridge.WithArgs("-m", "myapp.rpc_server"),
//	    kernelbridge.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Call(ctx, "health/check", map[string]any{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp["result"])
//
// Or with automatic lifecycle management:
//
//	err := kernelbridge.WithBridge(ctx, func(c kernelbridge.Client) error {
//	    _, err := c.Call(ctx, "ping", map[string]any{})
//	    return err
//	}, kernelbridge.WithArgs("-m", "myapp.rpc_server"))
//
// # Interpreter Resolution
//
// Unless an explicit command is set with WithCommandPath, the kernel
// interpreter is resolved in order: the KERNEL_BRIDGE_PYTHON environment
// variable, a repo-relative .venv/bin/python found by walking upward
// from the running executable, and finally python3 on PATH.
//
// # Error Handling
//
// Failures carry a structured kind plus the underlying cause:
//
//	resp, err := client.Call(ctx, "ping", nil)
//	if err != nil {
//	    if errors.Is(err, kernelbridge.ErrExited) {
//	        // the kernel is gone; relaunch a fresh bridge
//	    }
//	    if jsonErr, ok := errors.AsType[*kernelbridge.InvalidJSONError](err); ok {
//	        log.Fatalf("kernel sent garbage: %s", jsonErr.RawData)
//	    }
//	    log.Fatal(err)
//	}
//
// After a write failure, read failure, malformed response, or process
// exit, the bridge is poisoned; tear it down and start a new one rather
// than retrying on an untrustworthy pipe.
//
// # Concurrency
//
// Call blocks the invoking goroutine until completion or failure, with
// no internal timeout. Calls through one bridge are serialized, so the
// kernel observes requests in exactly the order calls are issued. For
// bounded latency, run Call on a worker goroutine and Close the bridge
// on deadline expiry; the in-flight call then observes ErrExited or an
// I/O failure.
package kernelbridge
