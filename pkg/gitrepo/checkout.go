package gitrepo

import (
	"context"
	"errors"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// CheckoutOptions configure switching refs or restoring paths.
type CheckoutOptions struct {
	// Ref is the branch or commit to switch to.
	Ref string

	// NewBranch creates this branch at Ref and switches to it.
	NewBranch string

	// Force discards local modifications that block the switch.
	Force bool

	// Detach checks out the commit without moving any branch.
	Detach bool

	// Paths restores the given paths instead of switching; combined
	// with Ref, content comes from that revision.
	Paths []string
}

// Checkout switches branches or restores working-tree paths. A switch
// refused over local modifications returns a *CheckoutConflictError
// listing the blocking files.
func (r *Repository) Checkout(ctx context.Context, opts CheckoutOptions) error {
	if opts.Ref == "" && opts.NewBranch == "" && len(opts.Paths) == 0 {
		return commonerr.New(pkgName, commonerr.CodeInvalidInput, "checkout",
			"checkout needs a ref, a new branch, or paths", nil)
	}

	args := []string{"checkout"}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Detach {
		args = append(args, "--detach")
	}
	if opts.NewBranch != "" {
		args = append(args, "-b", opts.NewBranch)
	}
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}

	result, rerr := r.run(ctx, gitcmd.OpCheckout, args...)
	if rerr == nil {
		return nil
	}
	if errors.Is(rerr, gitcmd.ErrUncommittedChanges) && result != nil {
		return &CheckoutConflictError{Paths: conflictPaths(result.Stderr), cause: rerr}
	}
	return rerr
}
