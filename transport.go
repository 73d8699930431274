package kernelbridge

import "github.com/krswll/kernel-bridge-go/internal/config"

// Transport defines the interface for kernel process communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative communication methods.
//
// The default implementation spawns the kernel as a child process and
// captures its stdio pipes. Custom transports can be injected via
// WithTransport.
type Transport = config.Transport
