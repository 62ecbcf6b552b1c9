package gitproc

import (
	"fmt"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

// Engine exit codes with fixed meaning across subcommands.
const (
	// ExitCodeFatal is the engine's "fatal:" failure class.
	ExitCodeFatal = 128

	// ExitCodeUsage is the engine's "usage:" failure class.
	ExitCodeUsage = 129
)

// ExitClass buckets a child exit code once at the process boundary.
// Classification never happens twice: downstream layers consume the
// class, they do not re-derive it.
type ExitClass int

const (
	// ExitClean is code 0.
	ExitClean ExitClass = iota

	// ExitSafe is a nonzero code the failing command declared as a
	// valid outcome (for example 1 on a false ancestor check).
	ExitSafe

	// ExitFatal is code 128.
	ExitFatal

	// ExitUsage is code 129.
	ExitUsage

	// ExitGeneric is any other nonzero code; only the stderr message
	// gives it meaning.
	ExitGeneric
)

func (c ExitClass) String() string {
	switch c {
	case ExitClean:
		return "clean"
	case ExitSafe:
		return "safe"
	case ExitFatal:
		return "fatal"
	case ExitUsage:
		return "usage"
	case ExitGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Classify maps an exit code to its class given the command's safe-code
// set. Zero is always clean; safe codes never include classification by
// 128/129 (a command declaring 128 safe gets ExitSafe).
func Classify(code int, safeCodes []int) ExitClass {
	if code == 0 {
		return ExitClean
	}
	for _, safe := range safeCodes {
		if code == safe {
			return ExitSafe
		}
	}
	switch code {
	case ExitCodeFatal:
		return ExitFatal
	case ExitCodeUsage:
		return ExitUsage
	default:
		return ExitGeneric
	}
}

// ExitError reports a child process that exited with a non-safe code.
// It carries the classified code, the drained stderr text, and the
// command line for reproduction.
type ExitError struct {
	baseError *err.Error
	Code      int
	Class     ExitClass
	Stderr    string
	Command   string
}

// NewExitError builds an ExitError for the given classification.
func NewExitError(class ExitClass, code int, stderr, command string) *ExitError {
	errCode := err.CodeProcess
	if class == ExitUsage {
		errCode = err.CodeUsage
	}
	return &ExitError{
		baseError: err.New(pkgName, errCode, "wait_exit",
			fmt.Sprintf("process exited with code %d (%s)", code, class), nil).
			WithContext("stderr", firstLine(stderr)).
			WithContext("command", command),
		Code:    code,
		Class:   class,
		Stderr:  stderr,
		Command: command,
	}
}

// Error implements the error interface
func (e *ExitError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error so code-based
// matching keeps working through the wrapper type.
func (e *ExitError) Unwrap() error {
	return e.baseError
}

// SpawnError reports a failed process launch or pipe setup. These are
// environment-level faults: immediately fatal, never retried.
type SpawnError struct {
	baseError *err.Error
	Command   string
}

// NewSpawnError wraps cause as a spawn failure for command.
func NewSpawnError(op, command string, cause error) *SpawnError {
	return &SpawnError{
		baseError: err.New(pkgName, err.CodeProcess, op, "failed to start process", cause).
			WithContext("command", command),
		Command: command,
	}
}

// Error implements the error interface
func (e *SpawnError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error so code-based
// matching keeps working through the wrapper type.
func (e *SpawnError) Unwrap() error {
	return e.baseError
}

// firstLine trims text to its first line for compact error context.
func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i]
		}
	}
	return text
}
