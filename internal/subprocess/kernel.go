package subprocess

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/krswll/kernel-bridge-go/internal/config"
	"github.com/krswll/kernel-bridge-go/internal/discovery"
	"github.com/krswll/kernel-bridge-go/internal/errors"
)

// maxScanTokenSize is the maximum buffer size for reading kernel output lines.
const maxScanTokenSize = 1024 * 1024 // 1MB

// KernelProcess implements Transport by spawning the kernel as a child
// process and capturing its stdin/stdout pipes.
//
// Stderr is not captured for protocol purposes: by default it is passed
// through to the host's own stderr so kernel diagnostics stay visible
// to the operator. An optional per-line callback can observe it.
//
// The process and both pipe ends are exclusively owned by this value
// for its entire lifetime. A background goroutine reaps the child as
// soon as it exits, so liveness checks never block and no zombie is
// left behind.
type KernelProcess struct {
	log     *slog.Logger
	options *config.Options

	command string
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Scanner

	// eg manages the stderr-forwarding and process-reaping goroutine.
	eg *errgroup.Group

	mu          sync.Mutex // protects stdin writes and lifecycle flags
	exited      chan struct{}
	waitErr     error
	closing     bool
	stdinClosed bool
}

// Compile-time verification that KernelProcess implements the Transport interface.
var _ config.Transport = (*KernelProcess)(nil)

// New creates a kernel process transport with the given options.
//
// The logger receives debug, info, warn, and error messages during
// transport operations. Interpreter resolution is deferred to Start().
func New(log *slog.Logger, options *config.Options) *KernelProcess {
	return &KernelProcess{
		log:     log.With("component", "kernel_process"),
		options: options,
		exited:  make(chan struct{}),
	}
}

// Start launches the kernel process and captures its pipes.
//
// The kernel command is the explicit Options.CommandPath if set,
// otherwise the resolved interpreter (env override, repo .venv, PATH).
// Returns SpawnError if the process cannot be created or either stdio
// pipe cannot be captured. A failed spawn is fatal: there is no retry,
// the error is surfaced to the caller.
func (p *KernelProcess) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return errors.ErrAlreadyStarted
	}

	resolver := discovery.NewResolver(&discovery.Config{
		CommandPath: p.options.CommandPath,
		Logger:      p.log,
	})
	p.command = resolver.Resolve()

	p.log.Info("Starting kernel process", "command", p.command, "args", p.options.Args)

	cwd := p.options.Cwd
	if cwd == "" {
		var err error

		cwd, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	}

	//nolint:gosec // G204: launching a configured kernel command is the point of this package
	cmd := exec.CommandContext(ctx, p.command, p.options.Args...)
	cmd.Dir = cwd
	cmd.Env = buildEnvironment(p.options)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		p.log.Error("Failed to create stdin pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		p.log.Error("Failed to create stdout pipe", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderrWriter := p.options.StderrWriter
	if stderrWriter == nil {
		stderrWriter = os.Stderr
	}

	// With no line callback, stderr flows straight to the host with no
	// plumbing in between. With a callback, it has to be scanned.
	var stderrPipe io.ReadCloser

	if p.options.Stderr == nil {
		cmd.Stderr = stderrWriter
	} else {
		stderrPipe, err = cmd.StderrPipe()
		if err != nil {
			p.log.Error("Failed to create stderr pipe", "error", err)

			return &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
		}
	}

	if err := cmd.Start(); err != nil {
		p.log.Error("Failed to start kernel process", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	p.cmd = cmd
	p.stdin = stdin
	p.stdout = bufio.NewScanner(stdout)
	p.stdout.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	p.log.Info("Kernel process started", "pid", cmd.Process.Pid)

	// One goroutine drains stderr (when piped) and then reaps the
	// process. Stderr must be fully read before Wait per os/exec docs.
	p.eg = &errgroup.Group{}
	p.eg.Go(func() error {
		if stderrPipe != nil {
			p.forwardStderr(stderrPipe, stderrWriter)
		}

		err := cmd.Wait()

		p.mu.Lock()
		p.waitErr = err
		isClosing := p.closing
		p.mu.Unlock()

		close(p.exited)

		if err != nil && !isClosing {
			p.log.Warn("Kernel process exited with error", "error", err)
		} else {
			p.log.Debug("Kernel process exited")
		}

		return nil
	})

	return nil
}

// forwardStderr copies kernel stderr line by line to the configured
// writer and invokes the per-line callback.
func (p *KernelProcess) forwardStderr(pipe io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, maxScanTokenSize), maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(w, line)
		p.options.Stderr(line)
	}

	if err := scanner.Err(); err != nil {
		p.log.Debug("Stderr scanner error", "error", err)
	}
}

// WriteLine writes one request line to the kernel's stdin, appending a
// trailing newline if missing. Writes are not internally serialized;
// the channel's one-in-flight discipline guarantees a single writer.
func (p *KernelProcess) WriteLine(data []byte) error {
	p.mu.Lock()
	stdin := p.stdin
	stdinClosed := p.stdinClosed
	p.mu.Unlock()

	if stdin == nil {
		return errors.ErrNotStarted
	}

	if stdinClosed {
		return errors.ErrClosed
	}

	// Explicit copy so the caller's backing array is never mutated.
	if len(data) == 0 || data[len(data)-1] != '\n' {
		newData := make([]byte, len(data)+1)
		copy(newData, data)
		newData[len(data)] = '\n'
		data = newData
	}

	// The write happens outside the lock: a write blocked on a full
	// pipe must not stop Close from closing stdin and killing the
	// process, which is what unblocks it.
	if _, err := stdin.Write(data); err != nil {
		p.log.Error("Failed to write to kernel stdin", "error", err)

		return &errors.WriteError{Err: err}
	}

	return nil
}

// ReadLine reads the next line from the kernel's stdout.
//
// Returns io.EOF when the kernel closes its output. The returned slice
// points into the scanner's buffer and is only valid until the next
// ReadLine call.
func (p *KernelProcess) ReadLine() ([]byte, error) {
	if p.stdout == nil {
		return nil, errors.ErrNotStarted
	}

	if p.stdout.Scan() {
		return p.stdout.Bytes(), nil
	}

	if err := p.stdout.Err(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}

// Alive reports whether the kernel process is still running, without
// blocking.
func (p *KernelProcess) Alive() bool {
	p.mu.Lock()
	started := p.cmd != nil
	p.mu.Unlock()

	if !started {
		return false
	}

	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// ExitErr returns the error from the process's exit, if it has exited.
func (p *KernelProcess) ExitErr() error {
	select {
	case <-p.exited:
		p.mu.Lock()
		defer p.mu.Unlock()

		return p.waitErr
	default:
		return nil
	}
}

// Close terminates the kernel process and releases the pipes.
//
// The child is killed with SIGKILL and reaped; Close returns once the
// reaper goroutine has observed the exit. Safe to call multiple times
// or on a process that already exited.
func (p *KernelProcess) Close() error {
	p.mu.Lock()

	p.closing = true

	if p.stdin != nil && !p.stdinClosed {
		_ = p.stdin.Close()
		p.stdinClosed = true
	}

	cmd := p.cmd
	eg := p.eg
	p.mu.Unlock()

	if cmd == nil {
		return nil
	}

	if p.Alive() && cmd.Process != nil {
		p.log.Debug("Killing kernel process", "pid", cmd.Process.Pid)

		if err := cmd.Process.Kill(); err != nil && p.Alive() {
			return fmt.Errorf("kill kernel process (pid %d): %w", cmd.Process.Pid, err)
		}
	}

	if eg != nil {
		_ = eg.Wait()
	}

	return nil
}

// buildEnvironment merges the configured variables over the host environment.
func buildEnvironment(options *config.Options) []string {
	env := os.Environ()
	for k, v := range options.Env {
		env = append(env, k+"="+v)
	}

	return env
}
