package gitrepo

import (
	"context"
	"errors"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

// FastForwardMode selects how a merge may move the branch pointer.
type FastForwardMode int

const (
	// FFDefault fast-forwards when possible, merges otherwise.
	FFDefault FastForwardMode = iota
	// FFOnly refuses merges that cannot fast-forward.
	FFOnly
	// FFNever always creates a merge commit.
	FFNever
)

// MergeOptions configure a merge.
type MergeOptions struct {
	// Revs are the branches or commits to merge in.
	Revs []string

	// Mode selects the fast-forward behavior.
	Mode FastForwardMode

	// Squash stages the combined changes without committing.
	Squash bool

	// NoCommit merges but stops before creating the commit.
	NoCommit bool

	// Strategy picks a merge strategy ("ort", "recursive", "ours").
	Strategy string

	// StrategyOptions are -X sub-options for the strategy.
	StrategyOptions []string

	// Message overrides the merge commit message.
	Message string

	// Progress, when set, streams decoded events during the merge.
	Progress progress.Callback
}

// MergeResult describes how a merge (or pull, or sequencer step)
// ended.
type MergeResult struct {
	// Outcome is the textual classification of the merge.
	Outcome progress.MergeOutcome

	// Conflicts lists paths the engine reported as conflicted.
	Conflicts []string

	// AutoMerged lists paths merged automatically.
	AutoMerged []string

	// Head is the post-merge head commit when one was created.
	Head objects.ObjectId
}

// Merge merges revisions into the current branch. On conflict the
// returned error matches gitcmd.ErrMergeConflict and the result still
// carries the conflict details.
func (r *Repository) Merge(ctx context.Context, opts MergeOptions) (*MergeResult, error) {
	if len(opts.Revs) == 0 {
		return nil, commonerr.New(pkgName, commonerr.CodeInvalidInput, "merge",
			"merge needs at least one revision", nil)
	}

	args := []string{"merge"}
	switch opts.Mode {
	case FFOnly:
		args = append(args, "--ff-only")
	case FFNever:
		args = append(args, "--no-ff")
	}
	if opts.Squash {
		args = append(args, "--squash")
	}
	if opts.NoCommit {
		args = append(args, "--no-commit")
	}
	if opts.Strategy != "" {
		args = append(args, "--strategy", opts.Strategy)
	}
	for _, sub := range opts.StrategyOptions {
		args = append(args, "--strategy-option", sub)
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, opts.Revs...)

	return r.runMergeLike(ctx, r.spec(gitcmd.OpMerge, args...), opts.Progress,
		!opts.Squash && !opts.NoCommit)
}

// runMergeLike executes a merge-producing command through the progress
// engine and assembles the shared result shape. wantHead controls
// whether a successful run resolves the new head commit.
func (r *Repository) runMergeLike(ctx context.Context, spec gitcmd.Spec, cb progress.Callback, wantHead bool) (*MergeResult, error) {
	outcome, rerr := progress.Run(ctx, spec, cb, r.progOpts...)
	if outcome == nil {
		return nil, rerr
	}

	res := &MergeResult{
		Outcome:    outcome.Summary.Merge,
		Conflicts:  outcome.Summary.Conflicts,
		AutoMerged: outcome.Summary.AutoMerged,
	}

	if rerr != nil {
		return res, r.materializeConflict(rerr, res, outcome.Result)
	}

	if wantHead {
		head, herr := r.RevParse(ctx, "HEAD")
		if herr != nil {
			return res, herr
		}
		res.Head = head
	}
	return res, nil
}

// materializeConflict upgrades a bare exit failure to the merge
// conflict error when the summary shows one, so callers get a stable
// sentinel regardless of which stream carried the wording.
func (r *Repository) materializeConflict(rerr error, res *MergeResult, result *gitcmd.Result) error {
	if res.Outcome != progress.OutcomeConflicted {
		return rerr
	}
	if errors.Is(rerr, gitcmd.ErrMergeConflict) {
		return rerr
	}
	return gitcmd.NewCommandError(gitcmd.KindMergeConflict, result.Command, result.Stderr)
}
