package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newPullCmd() *cobra.Command {
	var ffOnly bool
	var noFF bool
	var rebase bool

	cmd := &cobra.Command{
		Use:   "pull [remote] [refspec]",
		Short: "Fetch a remote branch and integrate it",
		Long: `Fetch a remote branch and integrate it into the current one.

With no arguments, pulls the branch's configured upstream. Conflicts
are reported the same way merge reports them.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ffOnly && noFF {
				return fmt.Errorf("--ff-only and --no-ff are mutually exclusive")
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			mode := gitrepo.FFDefault
			switch {
			case ffOnly:
				mode = gitrepo.FFOnly
			case noFF:
				mode = gitrepo.FFNever
			}

			opts := gitrepo.PullOptions{Mode: mode, Rebase: rebase}
			if len(args) > 0 {
				opts.Remote = args[0]
			}
			if len(args) > 1 {
				opts.Refspec = args[1]
			}

			renderer := transferProgress()
			opts.Progress = renderer.Callback()
			res, perr := repo.Pull(cmd.Context(), opts)
			renderer.Finish()

			out := cmd.OutOrStdout()
			if perr != nil {
				if errors.Is(perr, gitcmd.ErrMergeConflict) && res != nil {
					printMergeResult(out, res)
				}
				return perr
			}

			printMergeResult(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ffOnly, "ff-only", false, "Refuse to integrate unless the branch fast-forwards")
	cmd.Flags().BoolVar(&noFF, "no-ff", false, "Always create a merge commit")
	cmd.Flags().BoolVarP(&rebase, "rebase", "r", false, "Reapply local commits on top instead of merging")

	return cmd
}
