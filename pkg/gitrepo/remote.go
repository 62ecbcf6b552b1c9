package gitrepo

import (
	"context"
	"strconv"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

// Remote is one configured remote with its fetch and push URLs.
type Remote struct {
	Name     string
	FetchURL string
	PushURL  string
}

// CloneOptions configure cloning a remote into a fresh directory.
type CloneOptions struct {
	// URL is the source repository.
	URL string

	// Dir is the destination directory.
	Dir string

	// Bare clones without a working tree.
	Bare bool

	// Branch checks out this branch instead of the remote's default.
	Branch string

	// Depth truncates history to that many commits.
	Depth int

	// SingleBranch fetches only the checked-out branch's history.
	SingleBranch bool

	// Progress, when set, streams transfer events during the clone.
	Progress progress.Callback
}

// Clone copies a remote repository and opens the result.
func Clone(ctx context.Context, opts CloneOptions, ropts ...RepoOption) (*Repository, error) {
	if opts.URL == "" || opts.Dir == "" {
		return nil, commonerr.New(pkgName, commonerr.CodeInvalidInput, "clone",
			"clone needs a source url and a destination directory", nil)
	}
	cfg := applyOptions(ropts)

	args := []string{"clone"}
	if opts.Progress != nil {
		args = append(args, "--progress")
	}
	if opts.Bare {
		args = append(args, "--bare")
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	if opts.SingleBranch {
		args = append(args, "--single-branch")
	}
	args = append(args, "--", opts.URL, opts.Dir)

	spec := gitcmd.Spec{
		Binary: cfg.binary,
		Args:   args,
		Env:    cfg.env,
		Op:     gitcmd.OpClone,
	}
	if _, rerr := progress.Run(ctx, spec, opts.Progress, cfg.progOpts...); rerr != nil {
		return nil, rerr
	}
	return Open(opts.Dir, ropts...)
}

// FetchOptions configure downloading remote history.
type FetchOptions struct {
	// Remote names the remote; empty means origin (or the branch's
	// upstream remote).
	Remote string

	// Refspecs override what is fetched.
	Refspecs []string

	// All fetches every remote.
	All bool

	// Prune removes remote-tracking refs that vanished upstream.
	Prune bool

	// Tags fetches all tags.
	Tags bool

	// Depth deepens or truncates a shallow history.
	Depth int

	// Progress, when set, streams transfer events.
	Progress progress.Callback
}

// Fetch downloads history from a remote without touching the working
// state.
func (r *Repository) Fetch(ctx context.Context, opts FetchOptions) error {
	args := []string{"fetch"}
	if opts.Progress != nil {
		args = append(args, "--progress")
	}
	if opts.All {
		args = append(args, "--all")
	}
	if opts.Prune {
		args = append(args, "--prune")
	}
	if opts.Tags {
		args = append(args, "--tags")
	}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	if opts.Remote != "" {
		args = append(args, opts.Remote)
	}
	args = append(args, opts.Refspecs...)

	_, rerr := progress.Run(ctx, r.spec(gitcmd.OpFetch, args...), opts.Progress, r.progOpts...)
	return rerr
}

// PullOptions configure fetch-and-integrate.
type PullOptions struct {
	// Remote and Refspec name what to pull; both empty uses the
	// branch's upstream.
	Remote  string
	Refspec string

	// Mode selects the fast-forward behavior of the integration.
	Mode FastForwardMode

	// Rebase reapplies local commits on top instead of merging.
	Rebase bool

	// Progress, when set, streams transfer and merge events.
	Progress progress.Callback
}

// Pull fetches and integrates a remote branch. The result reports the
// integration the same way Merge does.
func (r *Repository) Pull(ctx context.Context, opts PullOptions) (*MergeResult, error) {
	args := []string{"pull"}
	if opts.Progress != nil {
		args = append(args, "--progress")
	}
	switch opts.Mode {
	case FFOnly:
		args = append(args, "--ff-only")
	case FFNever:
		args = append(args, "--no-ff")
	}
	if opts.Rebase {
		args = append(args, "--rebase")
	}
	if opts.Remote != "" {
		args = append(args, opts.Remote)
	}
	if opts.Refspec != "" {
		args = append(args, opts.Refspec)
	}

	return r.runMergeLike(ctx, r.spec(gitcmd.OpPull, args...), opts.Progress, true)
}

// PushOptions configure publishing local history.
type PushOptions struct {
	// Remote names the destination; empty uses the branch's push
	// remote.
	Remote string

	// Refspecs select what to push.
	Refspecs []string

	// Force replaces remote refs that are not ancestors.
	Force bool

	// Tags pushes all tags too.
	Tags bool

	// SetUpstream records the pushed branch as the upstream.
	SetUpstream bool

	// Delete removes the named remote refs instead of updating them.
	Delete bool

	// DryRun reports what would be pushed without pushing.
	DryRun bool

	// Progress, when set, streams transfer events.
	Progress progress.Callback
}

// Push publishes local history to a remote.
func (r *Repository) Push(ctx context.Context, opts PushOptions) error {
	args := []string{"push"}
	if opts.Progress != nil {
		args = append(args, "--progress")
	}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Tags {
		args = append(args, "--tags")
	}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	if opts.Delete {
		args = append(args, "--delete")
	}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	if opts.Remote != "" {
		args = append(args, opts.Remote)
	}
	args = append(args, opts.Refspecs...)

	_, rerr := progress.Run(ctx, r.spec(gitcmd.OpPush, args...), opts.Progress, r.progOpts...)
	return rerr
}

// Remotes lists the configured remotes with their URLs.
func (r *Repository) Remotes(ctx context.Context) ([]Remote, error) {
	result, rerr := r.run(ctx, gitcmd.OpRemote, "remote", "-v")
	if rerr != nil {
		return nil, rerr
	}
	return parseRemotes(result.Stdout), nil
}

// parseRemotes folds the verbose listing's per-direction lines
// ("name<TAB>url (fetch)") into one Remote per name, keeping first-seen
// order.
func parseRemotes(stdout string) []Remote {
	var order []string
	byName := make(map[string]*Remote)

	for _, line := range strings.Split(stdout, "\n") {
		name, rest, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		url, direction, ok := strings.Cut(rest, " ")
		if !ok {
			continue
		}

		remote := byName[name]
		if remote == nil {
			remote = &Remote{Name: name}
			byName[name] = remote
			order = append(order, name)
		}
		switch direction {
		case "(fetch)":
			remote.FetchURL = url
		case "(push)":
			remote.PushURL = url
		}
	}

	remotes := make([]Remote, 0, len(order))
	for _, name := range order {
		remotes = append(remotes, *byName[name])
	}
	return remotes
}

// AddRemote registers a remote.
func (r *Repository) AddRemote(ctx context.Context, name, url string) error {
	_, rerr := r.run(ctx, gitcmd.OpRemote, "remote", "add", name, url)
	return rerr
}

// RemoveRemote deletes a remote and its tracking refs.
func (r *Repository) RemoveRemote(ctx context.Context, name string) error {
	_, rerr := r.run(ctx, gitcmd.OpRemote, "remote", "remove", name)
	return rerr
}
