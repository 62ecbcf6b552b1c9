// Package progress turns the chatty text output of long-running engine
// invocations (clone, fetch, pull, push, merge, checkout, stash) into
// a typed event stream with cooperative cancellation.
//
// Two goroutines pump stdout and stderr through per-operation parser
// tables into a FIFO queue; a single consumer dequeues events and
// invokes the caller's callback, so callbacks never run concurrently.
// Within one stream, event order matches line order exactly; across
// the two streams no total order is guaranteed.
package progress

import "fmt"

// Event is one decoded unit of meaning extracted from a line of an
// operation's output. The set of implementations is closed.
type Event interface {
	isEvent()
	String() string
}

// MessageEvent is an informational line with no structured meaning.
type MessageEvent struct {
	Text string
}

func (MessageEvent) isEvent()         {}
func (e MessageEvent) String() string { return e.Text }

// WarningEvent is a line the engine prefixed with "warning:".
type WarningEvent struct {
	Text string
}

func (WarningEvent) isEvent()         {}
func (e WarningEvent) String() string { return "warning: " + e.Text }

// ErrorEvent is a non-fatal error line ("error:", "fatal:", "usage:"
// prefixes). Fatal classification happens separately, through the
// operation's fatal-line table.
type ErrorEvent struct {
	Text string
}

func (ErrorEvent) isEvent()         {}
func (e ErrorEvent) String() string { return "error: " + e.Text }

// RemoteEvent is a sideband line relayed from the remote ("remote:"
// prefix) that carried no recognizable transfer counter.
type RemoteEvent struct {
	Text string
}

func (RemoteEvent) isEvent()         {}
func (e RemoteEvent) String() string { return "remote: " + e.Text }

// TransferPhase names one stage of an object transfer.
type TransferPhase int

const (
	PhaseEnumerating TransferPhase = iota
	PhaseCounting
	PhaseCompressing
	PhaseReceiving
	PhaseWriting
	PhaseResolving
)

var transferPhaseNames = map[TransferPhase]string{
	PhaseEnumerating: "enumerating",
	PhaseCounting:    "counting",
	PhaseCompressing: "compressing",
	PhaseReceiving:   "receiving",
	PhaseWriting:     "writing",
	PhaseResolving:   "resolving",
}

func (p TransferPhase) String() string {
	if name, ok := transferPhaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// TransferEvent is an object-transfer counter line, either local or
// relayed over the sideband. Percent is -1 when the engine printed a
// bare tally without one.
type TransferEvent struct {
	Phase    TransferPhase
	Current  int
	Total    int
	Percent  int
	Done     bool
	Sideband bool
}

func (TransferEvent) isEvent() {}

func (e TransferEvent) String() string {
	if e.Percent < 0 {
		return fmt.Sprintf("%s objects: %d", e.Phase, e.Total)
	}
	return fmt.Sprintf("%s objects: %d%% (%d/%d)", e.Phase, e.Percent, e.Current, e.Total)
}

// CheckoutEvent is a working-tree population counter ("Checking out
// files:", "Updating files:").
type CheckoutEvent struct {
	Current int
	Total   int
	Percent int
	Done    bool
}

func (CheckoutEvent) isEvent() {}

func (e CheckoutEvent) String() string {
	return fmt.Sprintf("updating files: %d%% (%d/%d)", e.Percent, e.Current, e.Total)
}

// AutoMergingEvent reports one path the merge machinery combined
// automatically.
type AutoMergingEvent struct {
	Path string
}

func (AutoMergingEvent) isEvent()         {}
func (e AutoMergingEvent) String() string { return "auto-merging " + e.Path }

// ConflictEvent reports one conflict announcement. Kind is the
// engine's parenthesized category (content, rename/delete, ...); Path
// is empty when the line carried no recognizable path.
type ConflictEvent struct {
	Kind string
	Path string
	Text string
}

func (ConflictEvent) isEvent()         {}
func (e ConflictEvent) String() string { return e.Text }
