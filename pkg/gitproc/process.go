// Package gitproc runs the version-control engine as a child process
// and owns its I/O boundary: pipe setup, worker-pumped buffering, the
// shutdown protocol, and exit-code classification.
//
// Lifecycle of one invocation:
//
//	Start ──► running ──► CloseStdin ──► Wait ──► DrainStderr ──► Close
//	  │                                    │
//	  └── spawn/pipe failure (fatal)       └── Stop() kills early
//
// Each of stdin/stdout/stderr gets a dedicated pump goroutine and ring
// buffer, so a caller blocked on one stream never deadlocks the others
// and the child never blocks on a full OS pipe the caller forgot to
// read.
package gitproc

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
)

const pkgName = "gitproc"

// StderrUnavailable is substituted for stderr text when the drain
// timeout elapses before the stream finishes. A hung stderr pipe must
// never block exit handling indefinitely.
const StderrUnavailable = "Failed to read error message from process"

// stderrDrainTimeout bounds the post-exit wait for stderr to finish.
const stderrDrainTimeout = 1 * time.Second

// DefaultBufferSize is the per-stream ring buffer capacity.
const DefaultBufferSize = 64 * 1024

// State describes where a process is in its lifecycle.
type State int32

const (
	StateRunning State = iota
	StateExited
	StateKilled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// StartOptions configure a spawn.
type StartOptions struct {
	// Dir is the child's working directory; empty means inherit.
	Dir string

	// Env holds extra KEY=value entries appended after the standard
	// engine contract entries.
	Env []string

	// BufferSize overrides the per-stream ring capacity.
	BufferSize int
}

// Process is one running engine invocation with worker-buffered stdio.
type Process struct {
	commandLine string

	cmd    *exec.Cmd
	stdin  *Pipe
	stdout *Pipe
	stderr *Pipe

	state    atomic.Int32
	exitCode atomic.Int32
	done     chan struct{}

	stdinOnce sync.Once
	closeOnce sync.Once
}

// Start spawns name with args and wires up all three stdio pipes.
// Spawn and pipe-setup failures return a SpawnError; they indicate a
// broken host environment and are never retried.
//
// The pipes are created explicitly rather than through exec's helper
// methods: the parent keeps exactly one end of each and closes its copy
// of the child ends right after spawn. Waiting on the child therefore
// never races the pump goroutines, and stream EOF arrives exactly when
// the child's last handle closes.
func Start(name string, args []string, opts StartOptions) (*Process, error) {
	commandLine := name + " " + strings.Join(args, " ")

	var childEnds, parentEnds []*os.File
	cleanup := func() {
		for _, f := range childEnds {
			f.Close()
		}
		for _, f := range parentEnds {
			f.Close()
		}
	}

	stdinRead, stdinWrite, err2 := os.Pipe()
	if err2 != nil {
		return nil, NewSpawnError("pipe_stdin", commandLine, err2)
	}
	childEnds, parentEnds = append(childEnds, stdinRead), append(parentEnds, stdinWrite)

	stdoutRead, stdoutWrite, err2 := os.Pipe()
	if err2 != nil {
		cleanup()
		return nil, NewSpawnError("pipe_stdout", commandLine, err2)
	}
	childEnds, parentEnds = append(childEnds, stdoutWrite), append(parentEnds, stdoutRead)

	stderrRead, stderrWrite, err2 := os.Pipe()
	if err2 != nil {
		cleanup()
		return nil, NewSpawnError("pipe_stderr", commandLine, err2)
	}
	childEnds, parentEnds = append(childEnds, stderrWrite), append(parentEnds, stderrRead)

	cmd := exec.Command(name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts.Env)
	cmd.Stdin = stdinRead
	cmd.Stdout = stdoutWrite
	cmd.Stderr = stderrWrite

	if err2 := cmd.Start(); err2 != nil {
		cleanup()
		return nil, NewSpawnError("spawn", commandLine, err2)
	}

	// The child owns its ends now; holding ours open would keep the
	// streams from ever reaching EOF.
	for _, f := range childEnds {
		f.Close()
	}

	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}

	p := &Process{
		commandLine: commandLine,
		cmd:         cmd,
		stdin:       newWritePipe("stdin", stdinWrite, size),
		stdout:      newReadPipe("stdout", stdoutRead, size),
		stderr:      newReadPipe("stderr", stderrRead, size),
		done:        make(chan struct{}),
	}
	p.state.Store(int32(StateRunning))
	p.exitCode.Store(-1)

	logger.Debug("process started", "command", commandLine, "pid", cmd.Process.Pid)
	go p.waitLoop()
	return p, nil
}

// waitLoop reaps the child exactly once and publishes its exit code.
func (p *Process) waitLoop() {
	waitErr := p.cmd.Wait()

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}
	p.exitCode.Store(int32(code))
	p.state.CompareAndSwap(int32(StateRunning), int32(StateExited))
	close(p.done)

	logger.Debug("process exited", "command", p.commandLine, "code", code)
}

// Command returns the command line for error context and logging.
func (p *Process) Command() string { return p.commandLine }

// State returns the current lifecycle state.
func (p *Process) State() State { return State(p.state.Load()) }

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Stdin returns the child's write-direction stdin pipe.
func (p *Process) Stdin() io.Writer { return p.stdin }

// Stdout returns the child's read-direction stdout pipe.
func (p *Process) Stdout() io.Reader { return p.stdout }

// Stderr returns the child's read-direction stderr pipe.
func (p *Process) Stderr() io.Reader { return p.stderr }

// Done is closed once the child has been reaped.
func (p *Process) Done() <-chan struct{} { return p.done }

// CloseStdin signals end of input to the child. It is idempotent; a
// second call returns nil without effect.
func (p *Process) CloseStdin() error {
	p.stdinOnce.Do(func() {
		p.stdin.Close()
	})
	return nil
}

// Wait blocks until the child exits or ctx is cancelled, returning the
// exit code. Cancellation does not kill the child; callers that want
// that pair Wait with Stop.
func (p *Process) Wait(ctx context.Context) (int, error) {
	select {
	case <-p.done:
		return int(p.exitCode.Load()), nil
	case <-ctx.Done():
		return -1, err.New(pkgName, err.CodeCancelled, "wait_exit", "wait cancelled", ctx.Err()).
			WithContext("command", p.commandLine)
	}
}

// ExitCode returns the child's exit code, or -1 while it is running.
func (p *Process) ExitCode() int { return int(p.exitCode.Load()) }

// Stop kills the child. Killing unblocks every blocked pipe read (the
// streams hit EOF), which is the only sanctioned way to interrupt them.
func (p *Process) Stop() error {
	if State(p.state.Load()) != StateRunning {
		return nil
	}
	if err2 := p.cmd.Process.Kill(); err2 != nil {
		if errors.Is(err2, os.ErrProcessDone) {
			return nil
		}
		return err.New(pkgName, err.CodeProcess, "stop", "failed to kill process", err2).
			WithContext("command", p.commandLine)
	}
	p.state.Store(int32(StateKilled))
	return nil
}

// DrainStderr reads whatever stderr text remains, waiting at most the
// fixed drain timeout for the stream to finish. On timeout it returns
// the StderrUnavailable placeholder and false rather than hanging.
//
// The stream's pump goroutine has been filling the ring since Start,
// so in the common case everything is already buffered and this
// returns immediately.
func (p *Process) DrainStderr() (string, bool) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		b, readErr := io.ReadAll(p.stderr)
		ch <- result{string(b), readErr}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return StderrUnavailable, false
		}
		return r.text, true
	case <-time.After(stderrDrainTimeout):
		logger.Warn("stderr drain timed out", "command", p.commandLine)
		return StderrUnavailable, false
	}
}

// Finish runs the deterministic shutdown protocol: close stdin, wait
// for exit, drain stderr with its bounded timeout. It returns the exit
// code and whatever stderr text was recovered.
func (p *Process) Finish(ctx context.Context) (code int, stderr string, err error) {
	if err = p.CloseStdin(); err != nil {
		return -1, "", err
	}
	code, err = p.Wait(ctx)
	if err != nil {
		return code, "", err
	}
	stderr, _ = p.DrainStderr()
	return code, stderr, nil
}

// Close releases all three pipes. Safe to call more than once and
// after Finish; it never kills the child.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.CloseStdin()
		p.stdout.Close()
		p.stderr.Close()
	})
	return nil
}
