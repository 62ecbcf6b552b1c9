package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newCloneCmd() *cobra.Command {
	var bare bool
	var branch string
	var depth int
	var singleBranch bool

	cmd := &cobra.Command{
		Use:   "clone <url> [directory]",
		Short: "Copy a remote repository into a fresh directory",
		Long: `Copy a remote repository into a fresh directory.

The directory defaults to the last path segment of the URL. Transfer
progress streams to stderr while the clone runs.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			dir := cloneDir(url)
			if len(args) > 1 {
				dir = args[1]
			}

			renderer := transferProgress()
			repo, err := gitrepo.Clone(cmd.Context(), gitrepo.CloneOptions{
				URL:          url,
				Dir:          dir,
				Bare:         bare,
				Branch:       branch,
				Depth:        depth,
				SingleBranch: singleBranch,
				Progress:     renderer.Callback(),
			}, repoOptions()...)
			renderer.Finish()
			if err != nil {
				return err
			}
			defer repo.Close()

			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("cloned into", dir))
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Clone without a working tree")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Check out this branch instead of the remote's default")
	cmd.Flags().IntVar(&depth, "depth", 0, "Truncate history to this many commits")
	cmd.Flags().BoolVar(&singleBranch, "single-branch", false, "Fetch only the checked-out branch's history")

	return cmd
}

// cloneDir derives the destination directory from the source URL the
// way the engine does: last path segment, ".git" suffix stripped.
func cloneDir(url string) string {
	trimmed := strings.TrimRight(url, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "repository"
	}
	return trimmed
}
