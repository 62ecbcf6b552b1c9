package gitrepo

import (
	"context"

	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// ResetMode selects how far a reset reaches.
type ResetMode int

const (
	// ResetMixed moves HEAD and the index, keeping the working tree.
	ResetMixed ResetMode = iota
	// ResetSoft moves only HEAD.
	ResetSoft
	// ResetHard moves HEAD, the index, and the working tree.
	ResetHard
)

func (m ResetMode) String() string {
	switch m {
	case ResetSoft:
		return "soft"
	case ResetHard:
		return "hard"
	default:
		return "mixed"
	}
}

// Reset moves the current branch head to rev with the given reach.
func (r *Repository) Reset(ctx context.Context, mode ResetMode, rev string) error {
	args := []string{"reset", "--" + mode.String()}
	if rev != "" {
		args = append(args, rev)
	}
	_, rerr := r.run(ctx, gitcmd.OpReset, args...)
	return rerr
}

// ResetPaths unstages the given paths to their state at rev (HEAD when
// rev is empty) without touching the working tree.
func (r *Repository) ResetPaths(ctx context.Context, rev string, paths []string) error {
	args := []string{"reset"}
	if rev != "" {
		args = append(args, rev)
	}
	args = append(args, "--")
	args = append(args, paths...)
	_, rerr := r.run(ctx, gitcmd.OpReset, args...)
	return rerr
}
