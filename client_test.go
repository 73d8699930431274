package kernelbridge

import (
	"context"
	stderrors "errors"
	"io"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTransport is an in-memory Transport that echoes written lines
// back, standing in for a kernel that answers each request with the
// request itself.
type fakeTransport struct {
	startErr error
	started  bool
	closed   bool
	writes   [][]byte
	lines    [][]byte
}

var _ Transport = (*fakeTransport)(nil)

func (f *fakeTransport) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	f.started = true

	return nil
}

func (f *fakeTransport) WriteLine(data []byte) error {
	f.writes = append(f.writes, append([]byte(nil), data...))
	f.lines = append(f.lines, append([]byte(nil), data...))

	return nil
}

func (f *fakeTransport) ReadLine() ([]byte, error) {
	if len(f.lines) == 0 {
		return nil, io.EOF
	}

	line := f.lines[0]
	f.lines = f.lines[1:]

	return line, nil
}

func (f *fakeTransport) Alive() bool {
	return f.started && !f.closed
}

func (f *fakeTransport) Close() error {
	f.closed = true

	return nil
}

func TestClient_CallBeforeStart(t *testing.T) {
	client := NewClient()

	_, err := client.Call(context.Background(), "ping", nil)
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestClient_StartAndCall(t *testing.T) {
	fake := &fakeTransport{}
	client := NewClient()

	require.NoError(t, client.Start(context.Background(), WithTransport(fake)))
	require.True(t, client.IsRunning())

	resp, err := client.Call(context.Background(), "ping", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, float64(1), resp["id"])
	require.Equal(t, "ping", resp["method"])
}

func TestClient_StartTwice(t *testing.T) {
	fake := &fakeTransport{}
	client := NewClient()

	require.NoError(t, client.Start(context.Background(), WithTransport(fake)))
	require.ErrorIs(t, client.Start(context.Background(), WithTransport(fake)), ErrAlreadyStarted)
}

func TestClient_StartFailurePropagates(t *testing.T) {
	fake := &fakeTransport{
		startErr: &SpawnError{Err: stderrors.New("permission denied")},
	}
	client := NewClient()

	err := client.Start(context.Background(), WithTransport(fake))

	var spawnErr *SpawnError
	ok := stderrors.As(err, &spawnErr)
	require.True(t, ok)
	require.ErrorContains(t, spawnErr, "permission denied")
	require.False(t, client.IsRunning())
}

func TestClient_CloseIsTerminal(t *testing.T) {
	fake := &fakeTransport{}
	client := NewClient()

	require.NoError(t, client.Start(context.Background(), WithTransport(fake)))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	require.True(t, fake.closed)
	require.False(t, client.IsRunning())

	_, err := client.Call(context.Background(), "ping", nil)
	require.ErrorIs(t, err, ErrClosed)

	require.ErrorIs(t, client.Start(context.Background(), WithTransport(fake)), ErrClosed)
}

func TestClient_CallAfterKernelDeath(t *testing.T) {
	fake := &fakeTransport{}
	client := NewClient()

	require.NoError(t, client.Start(context.Background(), WithTransport(fake)))

	// Simulate the kernel dying between calls.
	fake.started = false

	_, err := client.Call(context.Background(), "ping", nil)
	require.ErrorIs(t, err, ErrExited)
	require.Empty(t, fake.writes)
}

func TestClient_EndToEndWithEchoProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Test requires Unix process semantics")
	}

	// cat answers every request line with the request itself, which
	// exercises the real subprocess transport end to end.
	client := NewClient()
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Start(context.Background(), WithCommandPath("cat")))
	require.True(t, client.IsRunning())

	resp, err := client.Call(context.Background(), "ping", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, float64(1), resp["id"])
	require.Equal(t, "ping", resp["method"])

	resp, err = client.Call(context.Background(), "status", nil)
	require.NoError(t, err)
	require.Equal(t, float64(2), resp["id"])

	require.NoError(t, client.Close())
	require.False(t, client.IsRunning())
}
