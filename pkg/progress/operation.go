package progress

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

const pkgName = "progress"

// ErrOperationCancelled reports a caller-initiated early exit, either
// from the progress callback returning false or from Stop.
var ErrOperationCancelled = errors.New("operation cancelled")

// maxLineBytes bounds one scanned output line.
const maxLineBytes = 1024 * 1024

// finishTimeout bounds the shutdown-protocol wait once both streams
// have hit EOF.
const finishTimeout = 3 * time.Second

// abortDrainGrace is how long the pumps get to drain buffered output
// after an aborted process has been reaped, before the pipes are
// force-closed. Grandchildren inheriting the write ends can otherwise
// hold the streams open indefinitely.
const abortDrainGrace = time.Second

// State is an operation's lifecycle phase.
type State int32

const (
	// StateRunning: process alive, pumps decoding.
	StateRunning State = iota + 1
	// StateDraining: streams exhausted cleanly, queue emptying.
	StateDraining
	// StateFaulted: a fatal line, cancellation, or stream failure was
	// recorded; the process is being killed.
	StateFaulted
	// StateStopped: process exited, pumps joined, queue drained.
	StateStopped
)

var stateNames = map[State]string{
	StateRunning:  "running",
	StateDraining: "draining",
	StateFaulted:  "faulted",
	StateStopped:  "stopped",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Callback receives decoded events one at a time on the consumer
// goroutine. Returning false requests cancellation.
type Callback func(Event) bool

type settings struct {
	queueBound  int
	queuePolicy QueuePolicy
}

// Option adjusts how an operation is run.
type Option func(*settings)

// WithBoundedQueue caps the event queue at n events with the given
// overflow policy. The default queue is unbounded.
func WithBoundedQueue(n int, policy QueuePolicy) Option {
	return func(s *settings) {
		if n > 0 {
			s.queueBound = n
			s.queuePolicy = policy
		}
	}
}

// Outcome is what a finished operation produced: the raw capture
// result plus the textual summary extraction. On recognized engine
// failures (a mapped rules error) the outcome is still returned
// alongside the error, so callers can report conflict details.
type Outcome struct {
	Result  *gitcmd.Result
	Summary Summary
}

// Operation is one live long-running engine invocation being decoded
// into events. Obtain one from Start, then call Wait exactly once;
// Stop may be called from any goroutine to cancel.
type Operation struct {
	exec  *gitcmd.Execution
	op    gitcmd.Op
	queue *eventQueue
	fatal []gitcmd.ErrorRule

	extract   extractor
	state     atomic.Int32
	cancelled atomic.Bool

	faultMu sync.Mutex
	fault   error

	stdoutText strings.Builder
	stderrText strings.Builder

	pumps errgroup.Group
}

// Run executes one operation to completion. With a callback it streams
// decoded events; with a nil callback it degenerates to a blocking
// capture run with only the final summary extraction.
func Run(ctx context.Context, spec gitcmd.Spec, cb Callback, opts ...Option) (*Outcome, error) {
	if cb == nil {
		result, rerr := gitcmd.Run(ctx, spec)
		if result == nil {
			return nil, rerr
		}
		var ex extractor
		ex.observeAll(result.Stdout, result.Stderr)
		return &Outcome{Result: result, Summary: ex.summary()}, rerr
	}

	op, serr := Start(spec, opts...)
	if serr != nil {
		return nil, serr
	}
	return op.Wait(ctx, cb)
}

// Start spawns the operation and begins pumping its streams into the
// event queue. The caller must follow up with Wait.
func Start(spec gitcmd.Spec, opts ...Option) (*Operation, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	exec, serr := gitcmd.Start(spec)
	if serr != nil {
		return nil, serr
	}

	op := &Operation{
		exec:  exec,
		op:    spec.Op,
		queue: newEventQueue(cfg.queueBound, cfg.queuePolicy),
		fatal: fatalRulesFor(spec.Op),
	}
	op.state.Store(int32(StateRunning))

	op.pumps.Go(func() error {
		op.pump(exec.Stdout(), &op.stdoutText)
		return nil
	})
	op.pumps.Go(func() error {
		op.pump(exec.Stderr(), &op.stderrText)
		return nil
	})
	go func() {
		op.pumps.Wait()
		op.toDraining()
		op.queue.close(op.currentFault())
	}()
	return op, nil
}

// State reports the operation's lifecycle phase.
func (o *Operation) State() State { return State(o.state.Load()) }

// Stop cancels the operation from any goroutine. Killing the process
// EOFs the pipes, which lets the pumps finish and the queue drain.
func (o *Operation) Stop() error {
	o.cancel("stop", "operation cancelled", ErrOperationCancelled)
	return nil
}

// cancel records a cancellation fault, kills the process, and arms
// the pipe release so the pumps cannot be held open past the grace
// window.
func (o *Operation) cancel(stage, message string, cause error) {
	o.cancelled.Store(true)
	o.setFault(err.New(pkgName, err.CodeCancelled, stage, message, cause))
	o.toFaulted()
	o.exec.Stop()
	o.releasePipesAfterExit()
}

// releasePipesAfterExit force-closes the pipes once the child has been
// reaped and the drain grace has passed. The ring buffers hand out
// what they hold before reporting EOF, so already-pumped output
// survives the close.
func (o *Operation) releasePipesAfterExit() {
	go func() {
		<-o.exec.Done()
		time.Sleep(abortDrainGrace)
		o.exec.Close()
	}()
}

// Wait consumes the event queue, delivering each event to cb in strict
// FIFO order on this goroutine, then runs the shutdown protocol and
// assembles the outcome. A recorded fault (fatal line, cancellation)
// is returned in place of the outcome.
func (o *Operation) Wait(ctx context.Context, cb Callback) (*Outcome, error) {
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			o.cancel("wait", "operation cancelled", ctx.Err())
		case <-watchDone:
		}
	}()

	for {
		ev, ok, _ := o.queue.next()
		if !ok {
			break
		}
		if o.cancelled.Load() || cb == nil {
			continue
		}
		if !cb(ev) {
			o.cancel("callback", "operation cancelled by progress callback",
				ErrOperationCancelled)
		}
	}
	close(watchDone)
	defer o.state.Store(int32(StateStopped))

	finishCtx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()
	result, rerr := o.exec.Finish(finishCtx, o.stderrText.String())

	if fault := o.currentFault(); fault != nil {
		return nil, fault
	}
	if result == nil {
		return nil, rerr
	}
	o.extract.reconcile(o.stdoutText.String() + "\n" + o.stderrText.String())
	return &Outcome{Result: result, Summary: o.extract.summary()}, rerr
}

// pump decodes one stream line by line: capture, extraction, fatal
// check, parser table, queue.
func (o *Operation) pump(stream io.Reader, capture *strings.Builder) {
	sc := bufio.NewScanner(stream)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(scanOutputLines)
	parsers := parsersFor(o.op)

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		capture.WriteString(line)
		capture.WriteByte('\n')
		o.extract.observeLine(line)

		if ferr := gitcmd.MatchLine(o.fatal, o.exec.Command(), line); ferr != nil {
			o.failFatal(ferr, line, sc, capture)
			return
		}
		if ev, ok := parseLine(parsers, line); ok {
			o.queue.push(ev)
		}
	}
}

// failFatal handles a fatal line: transition, kill, then capture the
// stream's remaining text verbatim into the fault.
func (o *Operation) failFatal(ferr error, line string, sc *bufio.Scanner, capture *strings.Builder) {
	o.toFaulted()
	o.exec.Stop()
	o.releasePipesAfterExit()

	var rest strings.Builder
	rest.WriteString(line)
	for sc.Scan() {
		t := sc.Text()
		if t == "" {
			continue
		}
		rest.WriteByte('\n')
		rest.WriteString(t)
		capture.WriteString(t)
		capture.WriteByte('\n')
	}

	var cmdErr *gitcmd.CommandError
	if errors.As(ferr, &cmdErr) {
		o.setFault(gitcmd.NewCommandError(cmdErr.Kind, o.exec.Command(), rest.String()))
		return
	}
	o.setFault(ferr)
}

// setFault records the terminal fault; the first one wins.
func (o *Operation) setFault(e error) {
	o.faultMu.Lock()
	defer o.faultMu.Unlock()
	if o.fault == nil {
		o.fault = e
	}
}

func (o *Operation) currentFault() error {
	o.faultMu.Lock()
	defer o.faultMu.Unlock()
	return o.fault
}

func (o *Operation) toDraining() {
	o.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
}

func (o *Operation) toFaulted() {
	for {
		cur := o.state.Load()
		if cur == int32(StateStopped) || cur == int32(StateFaulted) {
			return
		}
		if o.state.CompareAndSwap(cur, int32(StateFaulted)) {
			return
		}
	}
}
