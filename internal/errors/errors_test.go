package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnError(t *testing.T) {
	root := errors.New("exec: \"python3\": executable file not found in $PATH")
	err := &SpawnError{Err: root}

	require.Equal(
		t,
		"failed to spawn kernel: exec: \"python3\": executable file not found in $PATH",
		err.Error(),
	)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsKernelBridgeError())
}

func TestWriteError(t *testing.T) {
	root := errors.New("broken pipe")
	err := &WriteError{Err: root}

	require.Equal(t, "failed to write to kernel stdin: broken pipe", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsKernelBridgeError())
}

func TestReadError(t *testing.T) {
	root := errors.New("input/output error")
	err := &ReadError{Err: root}

	require.Equal(t, "failed to read kernel stdout: input/output error", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsKernelBridgeError())
}

func TestInvalidJSONError(t *testing.T) {
	root := errors.New("unexpected end of JSON input")
	err := &InvalidJSONError{
		RawData: `{"id":1,`,
		Err:     root,
	}

	require.Equal(t, "kernel returned invalid json: unexpected end of JSON input", err.Error())
	require.ErrorIs(t, err, root)
	require.Equal(t, `{"id":1,`, err.RawData)
	require.True(t, err.IsKernelBridgeError())
}

func TestSentinels(t *testing.T) {
	require.EqualError(t, ErrNotStarted, "kernel not started")
	require.EqualError(t, ErrExited, "kernel process exited")
	require.NotErrorIs(t, ErrExited, ErrNotStarted)
}
