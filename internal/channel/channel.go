package channel

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/krswll/kernel-bridge-go/internal/errors"
)

// ProtocolVersion is the JSON-RPC protocol tag sent with every request.
const ProtocolVersion = "2.0"

// Transport defines the minimal interface needed for channel operations.
//
// This interface is satisfied by subprocess.KernelProcess but allows
// testing against a scripted stub peer without launching a process.
type Transport interface {
	WriteLine(data []byte) error
	ReadLine() ([]byte, error)
	Alive() bool
}

// Request is the JSON-RPC request envelope written to the kernel.
//
// Wire format, one object per line, newline-terminated:
//
//	{"jsonrpc": "2.0", "id": 3, "method": "ping", "params": {}}
type Request struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID uniquely identifies this request for response correlation.
	// IDs are allocated 1, 2, 3, ... per channel and never reused.
	ID uint64 `json:"id"`

	// Method is an opaque method name understood by the kernel.
	Method string `json:"method"`

	// Params is an arbitrary JSON value understood by the kernel.
	Params any `json:"params"`
}

// Channel implements the synchronous request/response exchange with
// the kernel: line framing, response correlation by id, and tolerance
// of interleaved unrelated output lines.
//
// Exactly one request is outstanding at a time. Calls are serialized
// by an internal mutex, so a Channel may be shared, but the kernel
// observes requests in exactly the order calls return.
type Channel struct {
	log       *slog.Logger
	transport Transport

	mu     sync.Mutex // serializes calls; one request in flight
	nextID uint64
	broken error // first fatal failure; poisons subsequent calls
}

// New creates a channel over the given transport.
//
// The transport must be started before the first Call.
func New(log *slog.Logger, transport Transport) *Channel {
	return &Channel{
		log: log.With(
			"component", "rpc_channel",
			"channel_id", ulid.Make().String(),
		),
		transport: transport,
		nextID:    1,
	}
}

// Call performs one blocking round trip: it writes a single request
// line to the kernel and reads response lines until one carries the
// matching id, discarding non-matching lines.
//
// There is no internal timeout. The context is honored at suspension
// boundaries (before the write and between lines), but a read blocked
// on a silent kernel is only unblocked by closing the transport, which
// kills the process; callers needing bounded latency compose that
// externally.
//
// After a write failure, read failure, malformed response line, or
// process exit, the channel is poisoned: the pipe state is no longer
// trustworthy and every subsequent Call fails with the same error.
// Tear down and relaunch the kernel instead of retrying.
func (c *Channel) Call(ctx context.Context, method string, params any) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return nil, c.broken
	}

	// Fail fast on a dead kernel rather than blocking on a dead pipe.
	if !c.transport.Alive() {
		c.broken = errors.ErrExited

		return nil, errors.ErrExited
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := c.nextID
	c.nextID++

	req := &Request{
		JSONRPC: ProtocolVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.log.Debug("Sending request", "id", id, "method", method)

	if err := c.transport.WriteLine(data); err != nil {
		err = asWriteError(err)
		c.broken = err

		return nil, err
	}

	return c.awaitResponse(ctx, id)
}

// awaitResponse reads lines until one parses as JSON and carries the
// pending id. Earlier lines are read and discarded, never buffered.
func (c *Channel) awaitResponse(ctx context.Context, id uint64) (map[string]any, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := c.transport.ReadLine()
		if err != nil {
			err = asReadError(err)
			c.broken = err

			return nil, err
		}

		var parsed any

		if err := json.Unmarshal(bytes.TrimSpace(line), &parsed); err != nil {
			jsonErr := &errors.InvalidJSONError{
				RawData: string(line),
				Err:     err,
			}
			c.broken = jsonErr

			c.log.Error("Kernel sent malformed line", "id", id, "error", err)

			return nil, jsonErr
		}

		resp, ok := parsed.(map[string]any)
		if !ok {
			c.log.Debug("Discarding non-object line", "id", id)

			continue
		}

		respID, ok := responseID(resp)
		if !ok || respID != id {
			c.log.Debug("Discarding non-matching response", "id", id, "got_id", resp["id"])

			continue
		}

		c.log.Debug("Received matching response", "id", id)

		return resp, nil
	}
}

// NextID returns the id the next request will use.
func (c *Channel) NextID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nextID
}

// responseID extracts the correlation id from a parsed response object.
// JSON numbers decode as float64; only non-negative integral values
// can match an allocated request id.
func responseID(resp map[string]any) (uint64, bool) {
	f, ok := resp["id"].(float64)
	if !ok {
		return 0, false
	}

	if f < 0 || f != math.Trunc(f) {
		return 0, false
	}

	return uint64(f), true
}

// asWriteError maps a transport write failure into the error taxonomy,
// leaving already-classified errors untouched.
func asWriteError(err error) error {
	if stderrors.Is(err, errors.ErrNotStarted) || stderrors.Is(err, errors.ErrClosed) {
		return err
	}

	var writeErr *errors.WriteError
	if stderrors.As(err, &writeErr) {
		return err
	}

	return &errors.WriteError{Err: err}
}

// asReadError maps a transport read failure into the error taxonomy.
// A clean end-of-stream means the kernel is gone.
func asReadError(err error) error {
	if stderrors.Is(err, io.EOF) {
		return errors.ErrExited
	}

	if stderrors.Is(err, errors.ErrNotStarted) {
		return err
	}

	var readErr *errors.ReadError
	if stderrors.As(err, &readErr) {
		return err
	}

	return &errors.ReadError{Err: err}
}
