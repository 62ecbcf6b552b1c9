package gitrepo

import (
	"context"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// CommitOptions configure commit creation. The library never opens an
// editor: a message (or an explicit empty-message or no-edit amend
// allowance) is required up front.
type CommitOptions struct {
	// Message is the commit message.
	Message string

	// All stages every tracked modification before committing.
	All bool

	// Only commits just the given paths, regardless of what else is
	// staged.
	Only []string

	// AllowEmpty permits a commit introducing no changes.
	AllowEmpty bool

	// AllowEmptyMessage permits an empty commit message.
	AllowEmptyMessage bool

	// Amend replaces the current head commit.
	Amend bool

	// NoEdit reuses the amended commit's message.
	NoEdit bool

	// NoVerify skips the pre-commit and commit-msg hooks.
	NoVerify bool

	// Author overrides the author as "Name <email>".
	Author string
}

// Commit records staged changes and returns the new commit id.
func (r *Repository) Commit(ctx context.Context, opts CommitOptions) (objects.ObjectId, error) {
	args := []string{"commit"}

	switch {
	case opts.Message != "":
		args = append(args, "-m", opts.Message)
	case opts.Amend && opts.NoEdit:
	case opts.AllowEmptyMessage:
		args = append(args, "--allow-empty-message", "-m", "")
	default:
		return objects.ZeroId, commonerr.New(pkgName, commonerr.CodeInvalidInput, "commit",
			"commit message required", nil)
	}

	if opts.All {
		args = append(args, "--all")
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.Amend {
		args = append(args, "--amend")
	}
	if opts.NoEdit {
		args = append(args, "--no-edit")
	}
	if opts.NoVerify {
		args = append(args, "--no-verify")
	}
	if opts.Author != "" {
		args = append(args, "--author", opts.Author)
	}
	if len(opts.Only) > 0 {
		args = append(args, "--only", "--")
		args = append(args, opts.Only...)
	}

	if _, rerr := r.run(ctx, gitcmd.OpCommit, args...); rerr != nil {
		return objects.ZeroId, rerr
	}
	return r.RevParse(ctx, "HEAD")
}
