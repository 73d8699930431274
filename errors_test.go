package kernelbridge

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorReexports_BranchableByKind(t *testing.T) {
	var err error = &SpawnError{Err: stderrors.New("executable not found")}

	var spawnErr *SpawnError
	ok := stderrors.As(err, &spawnErr)
	require.True(t, ok)
	require.True(t, spawnErr.IsKernelBridgeError())

	err = &InvalidJSONError{RawData: "not json", Err: stderrors.New("bad token")}

	var jsonErr *InvalidJSONError
	ok = stderrors.As(err, &jsonErr)
	require.True(t, ok)
	require.Equal(t, "not json", jsonErr.RawData)
}

func TestErrorReexports_SentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", ErrExited)
	require.ErrorIs(t, wrapped, ErrExited)

	wrapped = fmt.Errorf("call failed: %w", ErrNotStarted)
	require.ErrorIs(t, wrapped, ErrNotStarted)
	require.NotErrorIs(t, wrapped, ErrExited)
}
