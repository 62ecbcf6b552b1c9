package gitrepo

import (
	"context"
	"strings"

	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

// ConfigGet reads one repo-scoped configuration value. The second
// return is false when the key is not set.
func (r *Repository) ConfigGet(ctx context.Context, key string) (string, bool, error) {
	spec := r.spec(gitcmd.OpGeneric, "config", "--get", key)
	spec.SafeCodes = []int{1}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return "", false, rerr
	}
	if result.ExitCode == 1 {
		return "", false, nil
	}
	return strings.TrimSuffix(result.Stdout, "\n"), true, nil
}

// ConfigGetAll reads every value of a multi-valued key, in
// configuration order.
func (r *Repository) ConfigGetAll(ctx context.Context, key string) ([]string, error) {
	spec := r.spec(gitcmd.OpGeneric, "config", "--get-all", key)
	spec.SafeCodes = []int{1}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	if result.ExitCode == 1 || result.Stdout == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(result.Stdout, "\n"), "\n"), nil
}

// ConfigSet writes one repo-scoped configuration value.
func (r *Repository) ConfigSet(ctx context.Context, key, value string) error {
	_, rerr := r.run(ctx, gitcmd.OpGeneric, "config", key, value)
	return rerr
}

// ConfigUnset removes a repo-scoped key. Unsetting an absent key is
// not an error.
func (r *Repository) ConfigUnset(ctx context.Context, key string) error {
	spec := r.spec(gitcmd.OpGeneric, "config", "--unset", key)
	spec.SafeCodes = []int{5}
	_, rerr := gitcmd.Run(ctx, spec)
	return rerr
}
