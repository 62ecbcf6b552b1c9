package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMergeBase reports revisions with disjoint histories.
var ErrNoMergeBase = errors.New("no common ancestor")

// CheckoutConflictError reports a checkout refused because it would
// overwrite local modifications. Paths lists the files the engine
// named.
type CheckoutConflictError struct {
	Paths []string
	cause error
}

func (e *CheckoutConflictError) Error() string {
	return fmt.Sprintf("checkout would overwrite %d locally modified file(s)", len(e.Paths))
}

// Unwrap exposes the underlying command error, so sentinel checks like
// errors.Is(err, gitcmd.ErrUncommittedChanges) keep working.
func (e *CheckoutConflictError) Unwrap() error { return e.cause }

// conflictPaths pulls the tab-indented file list out of an engine
// refusal block:
//
//	error: Your local changes to the following files would be overwritten by checkout:
//	        a.txt
//	Please commit your changes or stash them before you switch branches.
func conflictPaths(stderr string) []string {
	var paths []string
	inList := false
	for _, line := range strings.Split(stderr, "\n") {
		switch {
		case strings.HasPrefix(line, "\t"):
			if inList {
				paths = append(paths, strings.TrimPrefix(line, "\t"))
			}
		case strings.Contains(line, "would be overwritten by"):
			inList = true
		default:
			inList = false
		}
	}
	return paths
}
