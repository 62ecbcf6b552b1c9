package gitrepo

import (
	"context"
	"strconv"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// SequencerOptions configure cherry-pick and revert, including the
// resume verbs of an interrupted run. Exactly one of Revs or a resume
// verb may be given.
type SequencerOptions struct {
	// Revs are the commits to pick or revert, in order.
	Revs []string

	// Mainline selects the parent number when picking a merge commit.
	Mainline int

	// NoCommit applies the change without committing.
	NoCommit bool

	// Continue resumes after conflict resolution.
	Continue bool

	// Abort cancels the run and restores the pre-run state.
	Abort bool

	// Quit forgets the run but keeps the working tree.
	Quit bool
}

func (o SequencerOptions) resumeVerb() (string, bool) {
	switch {
	case o.Continue:
		return "--continue", true
	case o.Abort:
		return "--abort", true
	case o.Quit:
		return "--quit", true
	}
	return "", false
}

func (o SequencerOptions) validate(op string) error {
	verbs := 0
	for _, set := range []bool{o.Continue, o.Abort, o.Quit} {
		if set {
			verbs++
		}
	}
	if verbs > 1 {
		return commonerr.New(pkgName, commonerr.CodeInvalidInput, op,
			"continue, abort, and quit are mutually exclusive", nil)
	}
	if verbs == 1 && len(o.Revs) > 0 {
		return commonerr.New(pkgName, commonerr.CodeInvalidInput, op,
			"revisions cannot be combined with a resume verb", nil)
	}
	if verbs == 0 && len(o.Revs) == 0 {
		return commonerr.New(pkgName, commonerr.CodeInvalidInput, op,
			"nothing to do: no revisions and no resume verb", nil)
	}
	return nil
}

// wantHead reports whether the run, if successful, leaves a fresh
// commit worth resolving.
func (o SequencerOptions) wantHead() bool {
	return !o.NoCommit && !o.Abort && !o.Quit
}

func (o SequencerOptions) args(command string) []string {
	args := []string{command}
	if verb, ok := o.resumeVerb(); ok {
		return append(args, verb)
	}
	if o.Mainline > 0 {
		args = append(args, "--mainline", strconv.Itoa(o.Mainline))
	}
	if o.NoCommit {
		args = append(args, "--no-commit")
	}
	return append(args, o.Revs...)
}

// CherryPick applies existing commits on top of the current head. On
// conflict the result carries the conflicted paths and the error
// matches gitcmd.ErrMergeConflict.
func (r *Repository) CherryPick(ctx context.Context, opts SequencerOptions) (*MergeResult, error) {
	if verr := opts.validate("cherry_pick"); verr != nil {
		return nil, verr
	}
	spec := r.spec(gitcmd.OpCherryPick, opts.args("cherry-pick")...)
	return r.runMergeLike(ctx, spec, nil, opts.wantHead())
}

// Revert applies the inverse of existing commits on top of the current
// head, with the same conflict reporting as CherryPick.
func (r *Repository) Revert(ctx context.Context, opts SequencerOptions) (*MergeResult, error) {
	if verr := opts.validate("revert"); verr != nil {
		return nil, verr
	}
	spec := r.spec(gitcmd.OpRevert, opts.args("revert")...)
	return r.runMergeLike(ctx, spec, nil, opts.wantHead())
}
