package gitcmd

import (
	"errors"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
)

// Sentinel errors for recognized engine failures. Callers check them
// with errors.Is regardless of which command produced the failure.
var (
	ErrNotARepository     = errors.New("not a git repository")
	ErrBadObject          = errors.New("bad object")
	ErrMissingObject      = errors.New("object does not exist")
	ErrAmbiguousArgument  = errors.New("ambiguous argument")
	ErrMergeConflict      = errors.New("merge conflict")
	ErrNothingToCommit    = errors.New("nothing to commit")
	ErrBranchExists       = errors.New("branch already exists")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBranchNotMerged    = errors.New("branch not fully merged")
	ErrTagExists          = errors.New("tag already exists")
	ErrTagNotFound        = errors.New("tag not found")
	ErrUncommittedChanges = errors.New("uncommitted changes would be overwritten")
	ErrUnmergedFiles      = errors.New("unmerged files present")
	ErrNotFastForward     = errors.New("not a fast-forward")
	ErrNoUpstream         = errors.New("no upstream configured")
	ErrAuthenticationFail = errors.New("authentication failed")
	ErrRemoteNotFound     = errors.New("remote not found")
	ErrRemoteUnavailable  = errors.New("remote unreachable")
	ErrRemoteRejected     = errors.New("remote rejected update")
	ErrPathspecNoMatch    = errors.New("pathspec did not match any files")
	ErrNoStashEntries     = errors.New("no stash entries")
	ErrDetachedHead       = errors.New("detached HEAD")
	ErrCherryPickEmpty    = errors.New("cherry-pick resulted in empty commit")
)

// ErrorKind tags one recognized failure class. Kinds map 1:1 onto the
// sentinel errors above; KindNone means no rule matched.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotARepository
	KindBadObject
	KindMissingObject
	KindAmbiguousArgument
	KindMergeConflict
	KindNothingToCommit
	KindBranchExists
	KindBranchNotFound
	KindBranchNotMerged
	KindTagExists
	KindTagNotFound
	KindUncommittedChanges
	KindUnmergedFiles
	KindNotFastForward
	KindNoUpstream
	KindAuthenticationFail
	KindRemoteNotFound
	KindRemoteUnavailable
	KindRemoteRejected
	KindPathspecNoMatch
	KindNoStashEntries
	KindDetachedHead
	KindCherryPickEmpty
)

// sentinels maps each kind to its public sentinel.
var sentinels = map[ErrorKind]error{
	KindNotARepository:     ErrNotARepository,
	KindBadObject:          ErrBadObject,
	KindMissingObject:      ErrMissingObject,
	KindAmbiguousArgument:  ErrAmbiguousArgument,
	KindMergeConflict:      ErrMergeConflict,
	KindNothingToCommit:    ErrNothingToCommit,
	KindBranchExists:       ErrBranchExists,
	KindBranchNotFound:     ErrBranchNotFound,
	KindBranchNotMerged:    ErrBranchNotMerged,
	KindTagExists:          ErrTagExists,
	KindTagNotFound:        ErrTagNotFound,
	KindUncommittedChanges: ErrUncommittedChanges,
	KindUnmergedFiles:      ErrUnmergedFiles,
	KindNotFastForward:     ErrNotFastForward,
	KindNoUpstream:         ErrNoUpstream,
	KindAuthenticationFail: ErrAuthenticationFail,
	KindRemoteNotFound:     ErrRemoteNotFound,
	KindRemoteUnavailable:  ErrRemoteUnavailable,
	KindRemoteRejected:     ErrRemoteRejected,
	KindPathspecNoMatch:    ErrPathspecNoMatch,
	KindNoStashEntries:     ErrNoStashEntries,
	KindDetachedHead:       ErrDetachedHead,
	KindCherryPickEmpty:    ErrCherryPickEmpty,
}

// errCodeFor picks the structured error code carried by a kind.
func errCodeFor(kind ErrorKind) string {
	switch kind {
	case KindMergeConflict, KindUnmergedFiles, KindUncommittedChanges:
		return commonerr.CodeConflict
	case KindMissingObject, KindBadObject:
		return commonerr.CodeMissingObject
	case KindBranchNotFound, KindTagNotFound, KindRemoteNotFound,
		KindPathspecNoMatch, KindNoStashEntries:
		return commonerr.CodeNotFound
	case KindBranchExists, KindTagExists:
		return commonerr.CodeAlreadyExists
	default:
		return commonerr.CodeProcess
	}
}

// CommandError is a failure recognized from a command's output via its
// declarative rule table. It carries the matched capture (stderr, or
// stdout for outcomes the engine reports there) and the command line
// for reproduction.
type CommandError struct {
	baseError *commonerr.Error
	Kind      ErrorKind
	Command   string
	Stderr    string
}

// NewCommandError builds a CommandError of the given kind.
func NewCommandError(kind ErrorKind, command, stderr string) *CommandError {
	return &CommandError{
		baseError: commonerr.New(pkgName, errCodeFor(kind), "run",
			firstStderrLine(stderr), nil).WithContext("command", command),
		Kind:    kind,
		Command: command,
		Stderr:  stderr,
	}
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return e.baseError.Error()
}

// Is matches the sentinel for this error's kind, so
// errors.Is(err, ErrMergeConflict) works on rule-mapped failures.
func (e *CommandError) Is(target error) bool {
	if sentinel, ok := sentinels[e.Kind]; ok && sentinel == target {
		return true
	}
	return false
}

// Unwrap returns the underlying structured error
func (e *CommandError) Unwrap() error {
	return e.baseError
}

// ErrorRule declares one recognizable output pattern. Prefix and
// Suffix are matched byte-for-byte against the capture's first line;
// empty means "any". AnyLine widens the test to every line of the
// capture, for patterns that appear mid-block (push rejections,
// would-be-overwritten file lists). Rules are evaluated in declaration
// order, first match wins.
type ErrorRule struct {
	Kind    ErrorKind
	Prefix  string
	Suffix  string
	AnyLine bool
}

// matches tests one rule against the stderr capture.
func (r ErrorRule) matches(stderr string) bool {
	if r.AnyLine {
		for _, line := range strings.Split(stderr, "\n") {
			if r.lineMatches(line) {
				return true
			}
		}
		return false
	}
	return r.lineMatches(firstStderrLine(stderr))
}

func (r ErrorRule) lineMatches(line string) bool {
	if r.Prefix != "" && !strings.HasPrefix(line, r.Prefix) {
		return false
	}
	if r.Suffix != "" && !strings.HasSuffix(line, r.Suffix) {
		return false
	}
	return true
}

// MatchRules tests stderr against rules in order and constructs the
// mapped error for the first match. It returns nil when nothing
// matches; the caller then falls through to exit-code classification.
func MatchRules(rules []ErrorRule, command, stderr string) error {
	if stderr == "" {
		return nil
	}
	for _, rule := range rules {
		if rule.matches(stderr) {
			return NewCommandError(rule.Kind, command, stderr)
		}
	}
	return nil
}

// MatchLine tests one output line against rules in order, for callers
// that classify lines as they stream rather than after exit. The
// mapped error carries the line as its capture.
func MatchLine(rules []ErrorRule, command, line string) error {
	if line == "" {
		return nil
	}
	for _, rule := range rules {
		if rule.lineMatches(line) {
			return NewCommandError(rule.Kind, command, line)
		}
	}
	return nil
}

// firstStderrLine returns stderr up to the first newline.
func firstStderrLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
