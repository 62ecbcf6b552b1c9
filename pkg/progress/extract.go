package progress

import (
	"strings"
	"sync"
)

// MergeOutcome classifies how a merge-producing operation (merge,
// pull) ended. The classification is textual and best-effort: the
// engine's wording decides, and non-English output defeats it, which
// is why operations run with LC_ALL=C.
type MergeOutcome int

const (
	OutcomeUnknown MergeOutcome = iota
	OutcomeFastForward
	OutcomeMergeCommit
	OutcomeUpToDate
	OutcomeConflicted
)

var mergeOutcomeNames = map[MergeOutcome]string{
	OutcomeUnknown:     "unknown",
	OutcomeFastForward: "fast-forward",
	OutcomeMergeCommit: "merge commit",
	OutcomeUpToDate:    "already up to date",
	OutcomeConflicted:  "conflicted",
}

func (o MergeOutcome) String() string {
	if name, ok := mergeOutcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Summary is the aggregate result state an operation accumulates from
// recognized lines. Counters are advisory.
type Summary struct {
	Merge      MergeOutcome
	Conflicts  []string
	AutoMerged []string
}

// extractor computes the Summary incrementally as lines stream past,
// then reconciles gaps with a final pass over the captured text. Both
// stream pumps feed it, hence the lock.
type extractor struct {
	mu  sync.Mutex
	sum Summary
}

func (e *extractor) observeLine(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observeLocked(line)
}

func (e *extractor) observeLocked(line string) {
	switch {
	case strings.HasPrefix(line, conflictPrefix):
		e.sum.Merge = OutcomeConflicted
		if _, path := splitConflictLine(line); path != "" {
			e.sum.Conflicts = append(e.sum.Conflicts, path)
		}
	case strings.HasPrefix(line, "Automatic merge failed"):
		e.sum.Merge = OutcomeConflicted
	case strings.HasPrefix(line, "Auto-merging "):
		e.sum.AutoMerged = append(e.sum.AutoMerged, strings.TrimPrefix(line, "Auto-merging "))
	case strings.HasPrefix(line, "Fast-forward"):
		e.setOutcome(OutcomeFastForward)
	case strings.HasPrefix(line, "Already up to date"),
		strings.HasPrefix(line, "Already up-to-date"):
		e.setOutcome(OutcomeUpToDate)
	case strings.HasPrefix(line, "Merge made by the "):
		e.setOutcome(OutcomeMergeCommit)
	}
}

// setOutcome records a non-conflict outcome; a conflict, once seen, is
// never downgraded.
func (e *extractor) setOutcome(o MergeOutcome) {
	if e.sum.Merge == OutcomeUnknown {
		e.sum.Merge = o
	}
}

// reconcile runs the authoritative final pass over captured output,
// filling in an outcome the streaming pass missed. Wording already
// classified as a conflict is never revisited.
func (e *extractor) reconcile(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sum.Merge != OutcomeUnknown {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		e.observeLocked(strings.TrimSuffix(line, "\r"))
	}
}

// observeAll feeds whole captured streams through the line logic, for
// the synchronous path where nothing streamed.
func (e *extractor) observeAll(texts ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, text := range texts {
		for _, line := range strings.Split(text, "\n") {
			e.observeLocked(strings.TrimSuffix(line, "\r"))
		}
	}
}

func (e *extractor) summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sum
}
