package kernelbridge

import (
	"context"
	"sync"

	"github.com/krswll/kernel-bridge-go/internal/channel"
	"github.com/krswll/kernel-bridge-go/internal/config"
	"github.com/krswll/kernel-bridge-go/internal/subprocess"
)

// clientImpl wires the process transport and the RPC channel together
// behind the public Client interface.
type clientImpl struct {
	mu        sync.Mutex
	transport config.Transport
	channel   *channel.Channel
	started   bool
	closed    bool
}

// Compile-time check that *clientImpl implements the Client interface.
var _ Client = (*clientImpl)(nil)

func newClientImpl() Client {
	return &clientImpl{}
}

// Start launches the kernel process and captures its pipes.
func (c *clientImpl) Start(ctx context.Context, opts ...Option) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.started {
		return ErrAlreadyStarted
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	transport := options.Transport
	if transport == nil {
		transport = subprocess.New(log, options)
	}

	if err := transport.Start(ctx); err != nil {
		return err
	}

	c.transport = transport
	c.channel = channel.New(log, transport)
	c.started = true

	return nil
}

// Call sends one request and blocks until the matching response arrives.
func (c *clientImpl) Call(ctx context.Context, method string, params any) (map[string]any, error) {
	c.mu.Lock()
	ch, closed := c.channel, c.closed
	c.mu.Unlock()

	if closed {
		return nil, ErrClosed
	}

	if ch == nil {
		return nil, ErrNotStarted
	}

	return ch.Call(ctx, method, params)
}

// IsRunning reports whether the kernel process is alive.
func (c *clientImpl) IsRunning() bool {
	c.mu.Lock()
	transport, closed := c.transport, c.closed
	c.mu.Unlock()

	return !closed && transport != nil && transport.Alive()
}

// Close terminates the kernel process and releases resources.
func (c *clientImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	if c.transport == nil {
		return nil
	}

	return c.transport.Close()
}
