// Package discovery resolves which interpreter launches the kernel.
//
// Resolution order:
//  1. The explicit path in Config.CommandPath (used verbatim).
//  2. The KERNEL_BRIDGE_PYTHON environment variable.
//  3. A repo-relative `.venv/bin/python`, found by walking upward from
//     the running executable. This makes dev builds work reliably in a
//     monorepo-style checkout.
//  4. python3 (then python) on PATH.
//
// Resolution never fails: the final fallback is the literal "python3",
// and an unusable interpreter surfaces later as a SpawnError when the
// process is launched.
package discovery

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// EnvOverride is the environment variable that takes highest
	// priority when resolving the kernel interpreter.
	EnvOverride = "KERNEL_BRIDGE_PYTHON"

	// maxVenvWalkDepth bounds the upward walk for a repo .venv.
	maxVenvWalkDepth = 12
)

// Config holds configuration for interpreter resolution.
type Config struct {
	// CommandPath is an explicit interpreter path that skips all
	// probing. If empty, resolution proceeds through the env override,
	// the .venv walk, and PATH.
	CommandPath string

	// Logger is an optional logger for resolution steps.
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Resolver locates the kernel interpreter.
type Resolver interface {
	// Resolve returns the command used to launch the kernel.
	Resolve() string
}

type resolver struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that resolver implements Resolver.
var _ Resolver = (*resolver)(nil)

// NewResolver creates an interpreter resolver with the given configuration.
func NewResolver(cfg *Config) Resolver {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &resolver{
		cfg: cfg,
		log: log.With("component", "discovery"),
	}
}

// Resolve returns the command used to launch the kernel.
func (r *resolver) Resolve() string {
	if r.cfg.CommandPath != "" {
		r.log.Debug("Using explicit kernel command", "command", r.cfg.CommandPath)

		return r.cfg.CommandPath
	}

	if p := strings.TrimSpace(os.Getenv(EnvOverride)); p != "" {
		r.log.Debug("Using interpreter from env override", "env", EnvOverride, "command", p)

		return p
	}

	if p, ok := r.findRepoVenvPython(); ok {
		r.log.Debug("Using repo .venv interpreter", "command", p)

		return p
	}

	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			r.log.Debug("Found interpreter in PATH", "command", p)

			return p
		}
	}

	r.log.Warn("No interpreter found, falling back to python3 on PATH")

	return "python3"
}

// findRepoVenvPython walks upward from the running executable looking
// for `.venv/bin/python`.
func (r *resolver) findRepoVenvPython() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		r.log.Debug("Could not determine executable path", "error", err)

		return "", false
	}

	dir := filepath.Dir(exe)

	for i := 0; i < maxVenvWalkDepth; i++ {
		candidate := filepath.Join(dir, ".venv", "bin", "python")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", false
}
