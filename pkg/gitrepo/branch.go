package gitrepo

import (
	"context"
	"strconv"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// BranchInfo describes one local branch.
type BranchInfo struct {
	Name string
	Id   objects.ObjectId

	// Current marks the checked-out branch.
	Current bool

	// Upstream is the tracked remote branch, empty when none.
	Upstream string

	// UpstreamGone marks a tracked branch whose upstream no longer
	// exists.
	UpstreamGone bool

	// Ahead and Behind count commits relative to the upstream.
	Ahead  int
	Behind int

	// Subject is the tip commit's subject line.
	Subject string
}

// CreateBranchOptions configure branch creation.
type CreateBranchOptions struct {
	// StartPoint is the commit the branch begins at; empty means HEAD.
	StartPoint string

	// Force moves an existing branch instead of failing.
	Force bool

	// Track records the start point as the upstream.
	Track bool
}

// CreateBranch creates a branch without switching to it.
func (r *Repository) CreateBranch(ctx context.Context, name string, opts CreateBranchOptions) error {
	args := []string{"branch"}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Track {
		args = append(args, "--track")
	}
	args = append(args, name)
	if opts.StartPoint != "" {
		args = append(args, opts.StartPoint)
	}
	_, rerr := r.run(ctx, gitcmd.OpBranch, args...)
	return rerr
}

// DeleteBranch deletes a branch; force discards unmerged commits.
func (r *Repository) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, rerr := r.run(ctx, gitcmd.OpBranch, "branch", flag, name)
	return rerr
}

// RenameBranch renames a branch; force overwrites an existing target.
func (r *Repository) RenameBranch(ctx context.Context, oldName, newName string, force bool) error {
	flag := "-m"
	if force {
		flag = "-M"
	}
	_, rerr := r.run(ctx, gitcmd.OpBranch, "branch", flag, oldName, newName)
	return rerr
}

// CurrentBranch returns the checked-out branch name. A detached HEAD
// reports gitcmd.ErrDetachedHead.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	spec := r.spec(gitcmd.OpBranch, "symbolic-ref", "--short", "HEAD")
	spec.ExtraRules = []gitcmd.ErrorRule{
		{Kind: gitcmd.KindDetachedHead, Prefix: "fatal: ref HEAD is not a symbolic ref"},
	}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return "", rerr
	}
	return strings.TrimSpace(result.Stdout), nil
}

// branchListFormat asks for-each-ref for the fields BranchInfo needs,
// NUL-separated.
const branchListFormat = "%(refname:short)%00%(objectname)%00%(HEAD)%00%(upstream:short)%00%(upstream:track)%00%(contents:subject)"

// Branches lists local branches with tracking state.
func (r *Repository) Branches(ctx context.Context) ([]BranchInfo, error) {
	result, rerr := r.run(ctx, gitcmd.OpBranch,
		"for-each-ref", "--format", branchListFormat, "refs/heads")
	if rerr != nil {
		return nil, rerr
	}

	var branches []BranchInfo
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line == "" {
			continue
		}
		info, perr := parseBranchLine(line)
		if perr != nil {
			return nil, perr
		}
		branches = append(branches, info)
	}
	return branches, nil
}

func parseBranchLine(line string) (BranchInfo, error) {
	fields := strings.SplitN(line, "\x00", 6)
	if len(fields) != 6 {
		return BranchInfo{}, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "branches",
			"short branch record", nil).WithContext("line", line)
	}

	id, perr := objects.ParseId(fields[1])
	if perr != nil {
		return BranchInfo{}, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "branches",
			"malformed branch tip id", perr).WithContext("line", line)
	}

	info := BranchInfo{
		Name:     fields[0],
		Id:       id,
		Current:  fields[2] == "*",
		Upstream: fields[3],
		Subject:  fields[5],
	}
	info.Ahead, info.Behind, info.UpstreamGone = parseUpstreamTrack(fields[4])
	return info, nil
}

// parseUpstreamTrack decodes the "[ahead N, behind M]" tracking
// summary; "[gone]" marks a vanished upstream.
func parseUpstreamTrack(track string) (ahead, behind int, gone bool) {
	track = strings.Trim(track, "[]")
	if track == "gone" {
		return 0, 0, true
	}
	for _, part := range strings.Split(track, ",") {
		part = strings.TrimSpace(part)
		if n, ok := strings.CutPrefix(part, "ahead "); ok {
			ahead, _ = strconv.Atoi(n)
		}
		if n, ok := strings.CutPrefix(part, "behind "); ok {
			behind, _ = strconv.Atoi(n)
		}
	}
	return ahead, behind, false
}
