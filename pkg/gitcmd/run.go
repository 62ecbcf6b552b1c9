// Package gitcmd turns declarative command specs into engine
// invocations. A Spec carries the argument list, the safe exit codes,
// and the stderr rule table for one subcommand; Run executes it to
// completion while Start hands back a live Execution for streaming
// consumers (the object-database client, the operation progress
// engine).
//
// Error mapping is compositional: the first line of the capture (or,
// for AnyLine rules, each line) is tested against the spec's ordered
// rules, stderr first and then stdout; the first match constructs the
// mapped error; no match falls through to exit-code classification.
package gitcmd

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
	"github.com/utkarsh5026/gitpipe/pkg/gitproc"
)

const pkgName = "gitcmd"

// DefaultBinary is the engine binary resolved from PATH when a spec
// does not name one.
const DefaultBinary = "git"

// stderrJoinTimeout bounds the post-exit wait for the pre-started
// stderr reader, mirroring the process layer's drain policy.
const stderrJoinTimeout = 1 * time.Second

// Spec fully describes one engine invocation.
type Spec struct {
	// Binary overrides the engine executable; empty means DefaultBinary.
	Binary string

	// Args is the argument list after the binary name.
	Args []string

	// Dir is the working directory; empty inherits the parent's.
	Dir string

	// Env holds extra KEY=value pairs for the child.
	Env []string

	// Op selects the registered error-rule table.
	Op Op

	// SafeCodes lists nonzero exit codes that are valid outcomes for
	// this command (0 is always safe).
	SafeCodes []int

	// ExtraRules are tested before the Op's registered table.
	ExtraRules []ErrorRule

	// Stdin, when non-nil, is written to the child before stdin
	// closes. Streaming writers use Start and the Execution instead.
	Stdin []byte
}

func (s Spec) binary() string {
	if s.Binary != "" {
		return s.Binary
	}
	return DefaultBinary
}

func (s Spec) rules() []ErrorRule {
	if len(s.ExtraRules) == 0 {
		return RulesFor(s.Op)
	}
	rules := make([]ErrorRule, 0, len(s.ExtraRules)+len(baseRules)+8)
	rules = append(rules, s.ExtraRules...)
	return append(rules, RulesFor(s.Op)...)
}

// Result is a completed invocation with both streams materialized.
type Result struct {
	ExitCode int
	Class    gitproc.ExitClass
	Stdout   string
	Stderr   string
	Command  string
}

// Run executes the spec to completion and returns the captured
// streams. Readers for both streams start before anything else so a
// chatty child can never fill a pipe nobody is draining.
//
// A clean or safe exit returns a Result and nil error; everything else
// returns the rule-mapped or classified error (the Result still
// carries the captures for diagnostics).
func Run(ctx context.Context, spec Spec) (*Result, error) {
	proc, err := gitproc.Start(spec.binary(), spec.Args, gitproc.StartOptions{
		Dir: spec.Dir,
		Env: spec.Env,
	})
	if err != nil {
		return nil, err
	}
	defer proc.Close()

	var stdout, stderr []byte
	var group errgroup.Group
	stderrDone := make(chan struct{})

	group.Go(func() error {
		b, readErr := io.ReadAll(proc.Stdout())
		stdout = b
		return readErr
	})
	group.Go(func() error {
		defer close(stderrDone)
		b, readErr := io.ReadAll(proc.Stderr())
		stderr = b
		return readErr
	})

	if len(spec.Stdin) > 0 {
		if _, err := proc.Stdin().Write(spec.Stdin); err != nil {
			proc.Stop()
			return nil, err
		}
	}
	proc.CloseStdin()

	code, err := proc.Wait(ctx)
	if err != nil {
		// Cancelled: kill so the readers unblock, then surface the
		// cancellation rather than any read error.
		proc.Stop()
		group.Wait()
		return nil, err
	}

	// Both readers were pre-started; give them the bounded drain
	// window after exit. A stream held open past the window (an
	// inherited handle in a grandchild) is force-closed: stdout keeps
	// its partial capture, stderr reports unavailable.
	readersDone := make(chan error, 1)
	go func() { readersDone <- group.Wait() }()
	select {
	case <-readersDone:
	case <-time.After(stderrJoinTimeout):
		logger.Warn("stream drain timed out after exit", "command", proc.Command())
		stderrTimedOut := false
		select {
		case <-stderrDone:
		default:
			stderrTimedOut = true
		}
		proc.Close()
		<-readersDone
		if stderrTimedOut {
			stderr = []byte(gitproc.StderrUnavailable)
		}
	}

	result := &Result{
		ExitCode: code,
		Class:    gitproc.Classify(code, spec.SafeCodes),
		Stdout:   string(stdout),
		Stderr:   string(stderr),
		Command:  proc.Command(),
	}
	return result, resultError(result, spec)
}

// resultError maps a finished invocation to its error, or nil for
// clean/safe exits.
func resultError(result *Result, spec Spec) error {
	switch result.Class {
	case gitproc.ExitClean, gitproc.ExitSafe:
		return nil
	}
	rules := spec.rules()
	if err := MatchRules(rules, result.Command, result.Stderr); err != nil {
		return err
	}
	// Some porcelain outcomes land on stdout with stderr silent
	// ("nothing to commit", stash CONFLICT lines), so stdout gets a
	// turn before exit classification. Streaming executions carry no
	// stdout capture and skip this.
	if err := MatchRules(rules, result.Command, result.Stdout); err != nil {
		return err
	}
	return gitproc.NewExitError(result.Class, result.ExitCode, result.Stderr, result.Command)
}

// Execution is a live streaming invocation. The caller owns the
// streams until Finish, which runs the shutdown protocol and maps the
// outcome exactly like Run.
type Execution struct {
	proc *gitproc.Process
	spec Spec
}

// Start launches the spec and returns the live execution.
func Start(spec Spec) (*Execution, error) {
	proc, err := gitproc.Start(spec.binary(), spec.Args, gitproc.StartOptions{
		Dir: spec.Dir,
		Env: spec.Env,
	})
	if err != nil {
		return nil, err
	}
	return &Execution{proc: proc, spec: spec}, nil
}

// Stdin returns the child's stdin writer.
func (x *Execution) Stdin() io.Writer { return x.proc.Stdin() }

// Stdout returns the child's stdout reader.
func (x *Execution) Stdout() io.Reader { return x.proc.Stdout() }

// Stderr returns the child's stderr reader.
func (x *Execution) Stderr() io.Reader { return x.proc.Stderr() }

// CloseStdin signals end of input. Idempotent.
func (x *Execution) CloseStdin() error { return x.proc.CloseStdin() }

// Command returns the launched command line.
func (x *Execution) Command() string { return x.proc.Command() }

// Rules exposes the spec's effective rule table, for consumers that
// classify fatal stream lines mid-flight.
func (x *Execution) Rules() []ErrorRule { return x.spec.rules() }

// Alive reports whether the child is still running.
func (x *Execution) Alive() bool { return x.proc.State() == gitproc.StateRunning }

// Done is closed when the child has been reaped.
func (x *Execution) Done() <-chan struct{} { return x.proc.Done() }

// Stop kills the child, unblocking all stream readers.
func (x *Execution) Stop() error { return x.proc.Stop() }

// Finish runs the shutdown protocol (close stdin, wait for exit,
// drain whatever stderr the caller has not consumed) and applies the
// same rule mapping and classification as Run. The stderrSeen text, if
// any, is prepended to the drained remainder for rule matching, so a
// consumer that already read the stream keeps its diagnostics.
func (x *Execution) Finish(ctx context.Context, stderrSeen string) (*Result, error) {
	code, stderrRest, err := x.proc.Finish(ctx)
	if err != nil {
		x.proc.Stop()
		x.proc.Close()
		return nil, err
	}
	x.proc.Close()

	var stderr string
	switch {
	case stderrRest == gitproc.StderrUnavailable && stderrSeen != "":
		stderr = stderrSeen
	default:
		stderr = stderrSeen + stderrRest
	}

	result := &Result{
		ExitCode: code,
		Class:    gitproc.Classify(code, x.spec.SafeCodes),
		Stderr:   stderr,
		Command:  x.proc.Command(),
	}
	return result, resultError(result, x.spec)
}

// Close releases the execution's pipes without waiting.
func (x *Execution) Close() error { return x.proc.Close() }
