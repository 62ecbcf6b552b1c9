package progress

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// lineParser recognizes one family of output lines. Parsers run in
// table order; the first one that claims a line wins.
type lineParser func(line string) (Event, bool)

// counterPattern matches percent-style progress counters:
//
//	Receiving objects:  67% (2010/3000), 4.21 MiB | 8.40 MiB/s
//	Checking out files: 100% (3/3), done.
var counterPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z -]+): +(\d+)% \((\d+)/(\d+)\)(.*)$`)

// tallyPattern matches bare-count progress lines older engines and the
// sideband emit:
//
//	Enumerating objects: 5, done.
//	Counting objects: 12
var tallyPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z -]+): (\d+)(.*)$`)

// transferPhases maps counter labels onto phases.
var transferPhases = map[string]TransferPhase{
	"Enumerating objects": PhaseEnumerating,
	"Counting objects":    PhaseCounting,
	"Compressing objects": PhaseCompressing,
	"Receiving objects":   PhaseReceiving,
	"Writing objects":     PhaseWriting,
	"Resolving deltas":    PhaseResolving,
}

const sidebandPrefix = "remote: "

// parseTransfer recognizes transfer counters, both direct and relayed
// over the sideband.
func parseTransfer(line string) (Event, bool) {
	sideband := false
	if rest, ok := strings.CutPrefix(line, sidebandPrefix); ok {
		sideband = true
		line = rest
	}

	if m := counterPattern.FindStringSubmatch(line); m != nil {
		phase, known := transferPhases[m[1]]
		if !known {
			return nil, false
		}
		return TransferEvent{
			Phase:    phase,
			Percent:  atoi(m[2]),
			Current:  atoi(m[3]),
			Total:    atoi(m[4]),
			Done:     trailerDone(m[5]),
			Sideband: sideband,
		}, true
	}
	if m := tallyPattern.FindStringSubmatch(line); m != nil {
		phase, known := transferPhases[m[1]]
		if !known {
			return nil, false
		}
		n := atoi(m[2])
		return TransferEvent{
			Phase:    phase,
			Percent:  -1,
			Current:  n,
			Total:    n,
			Done:     trailerDone(m[3]),
			Sideband: sideband,
		}, true
	}
	return nil, false
}

// parseSideband relays remaining "remote:" lines verbatim. Registered
// after parseTransfer so relayed counters decode as TransferEvents.
func parseSideband(line string) (Event, bool) {
	rest, ok := strings.CutPrefix(line, sidebandPrefix)
	if !ok {
		return nil, false
	}
	return RemoteEvent{Text: strings.TrimSpace(rest)}, true
}

// checkoutLabels are the counter labels that describe working-tree
// population rather than transfer.
var checkoutLabels = map[string]bool{
	"Checking out files": true,
	"Updating files":     true,
}

func parseCheckout(line string) (Event, bool) {
	m := counterPattern.FindStringSubmatch(line)
	if m == nil || !checkoutLabels[m[1]] {
		return nil, false
	}
	return CheckoutEvent{
		Percent: atoi(m[2]),
		Current: atoi(m[3]),
		Total:   atoi(m[4]),
		Done:    trailerDone(m[5]),
	}, true
}

func parseAutoMerging(line string) (Event, bool) {
	path, ok := strings.CutPrefix(line, "Auto-merging ")
	if !ok {
		return nil, false
	}
	return AutoMergingEvent{Path: path}, true
}

const conflictPrefix = "CONFLICT ("

func parseConflict(line string) (Event, bool) {
	if !strings.HasPrefix(line, conflictPrefix) {
		return nil, false
	}
	kind, path := splitConflictLine(line)
	return ConflictEvent{Kind: kind, Path: path, Text: line}, true
}

// splitConflictLine pulls the category and, when present, the path out
// of a conflict announcement:
//
//	CONFLICT (content): Merge conflict in cmd/main.go
func splitConflictLine(line string) (kind, path string) {
	rest := strings.TrimPrefix(line, conflictPrefix)
	closing := strings.IndexByte(rest, ')')
	if closing < 0 {
		return "", ""
	}
	kind = rest[:closing]
	if i := strings.Index(rest, "Merge conflict in "); i >= 0 {
		path = rest[i+len("Merge conflict in "):]
	}
	return kind, path
}

// suppressedPrefixes are rollup lines that carry no information worth
// forwarding.
var suppressedPrefixes = []string{
	"hint: ",
	"Total ",
}

// genericEvent is the fallthrough path: strip the engine's severity
// prefixes, suppress known noise, forward the rest as messages.
func genericEvent(line string) (Event, bool) {
	if rest, ok := strings.CutPrefix(line, "warning: "); ok {
		return WarningEvent{Text: rest}, true
	}
	for _, prefix := range []string{"error: ", "fatal: ", "usage: "} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return ErrorEvent{Text: rest}, true
		}
	}
	for _, prefix := range suppressedPrefixes {
		if strings.HasPrefix(line, prefix) {
			return nil, false
		}
	}
	return MessageEvent{Text: line}, true
}

// transferParsers serve the network operations, where the interesting
// lines are counters and sideband chatter; pull additionally sees
// merge output.
var transferParsers = []lineParser{parseTransfer, parseSideband, parseCheckout, parseAutoMerging, parseConflict}

// mergeParsers serve the history-rewriting operations.
var mergeParsers = []lineParser{parseAutoMerging, parseConflict, parseCheckout}

// checkoutParsers serve working-tree operations.
var checkoutParsers = []lineParser{parseCheckout, parseConflict}

// parsersFor picks the recognizer table for an operation kind.
// Unlisted kinds get only the generic fallthrough.
func parsersFor(op gitcmd.Op) []lineParser {
	switch op {
	case gitcmd.OpClone, gitcmd.OpFetch, gitcmd.OpPull, gitcmd.OpPush:
		return transferParsers
	case gitcmd.OpMerge, gitcmd.OpCherryPick, gitcmd.OpRevert, gitcmd.OpStash:
		return mergeParsers
	case gitcmd.OpCheckout, gitcmd.OpReset:
		return checkoutParsers
	default:
		return nil
	}
}

// parseLine runs a table and falls through to the generic path. The
// second result is false for suppressed lines.
func parseLine(parsers []lineParser, line string) (Event, bool) {
	for _, p := range parsers {
		if ev, ok := p(line); ok {
			return ev, true
		}
	}
	return genericEvent(line)
}

func trailerDone(trailer string) bool {
	return strings.Contains(trailer, "done") || strings.Contains(trailer, "completed")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// scanOutputLines is a bufio.SplitFunc that treats carriage returns as
// line terminators too, so in-place counter updates surface as
// distinct lines.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance = i + 2
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
