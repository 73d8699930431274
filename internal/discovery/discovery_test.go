package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_ExplicitCommandWins(t *testing.T) {
	t.Setenv(EnvOverride, "/env/override/python")

	r := NewResolver(&Config{CommandPath: "/opt/kernel/bin/python"})

	require.Equal(t, "/opt/kernel/bin/python", r.Resolve())
}

func TestResolve_EnvOverride(t *testing.T) {
	t.Setenv(EnvOverride, "/env/override/python")

	r := NewResolver(nil)

	require.Equal(t, "/env/override/python", r.Resolve())
}

func TestResolve_EnvOverrideTrimsWhitespace(t *testing.T) {
	t.Setenv(EnvOverride, "  /env/override/python \n")

	r := NewResolver(nil)

	require.Equal(t, "/env/override/python", r.Resolve())
}

func TestResolve_EmptyEnvOverrideIgnored(t *testing.T) {
	t.Setenv(EnvOverride, "   ")

	r := NewResolver(nil)

	// Falls through to the .venv walk and PATH; whatever wins, the
	// result is a python command, never the empty override.
	got := r.Resolve()
	require.NotEmpty(t, got)
	require.Contains(t, strings.ToLower(got), "python")
}
