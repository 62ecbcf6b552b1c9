package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newMergeCmd() *cobra.Command {
	var ffOnly bool
	var noFF bool
	var squash bool
	var noCommit bool
	var strategy string
	var strategyOpts []string
	var message string

	cmd := &cobra.Command{
		Use:   "merge <revision>...",
		Short: "Join other lines of development into the current branch",
		Long: `Join other lines of development into the current branch.

Fast-forwards when possible unless told otherwise. On conflict the
command lists the conflicted paths and exits nonzero; resolve and
commit, or reset --hard to back out.`,
		Args: cobra.MinimumNArgs(1),
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

			renderer := transferProgress()
			res, err := repo.Merge(cmd.Context(), gitrepo.MergeOptions{
				Revs:            args,
				Mode:            mode,
				Squash:          squash,
				NoCommit:        noCommit,
				Strategy:        strategy,
				StrategyOptions: strategyOpts,
				Message:         message,
				Progress:        renderer.Callback(),
			})
			renderer.Finish()

			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, gitcmd.ErrMergeConflict) && res != nil {
					printMergeResult(out, res)
				}
				return err
			}

			if squash {
				fmt.Fprintln(out, ui.SuccessMessage("squashed changes staged", "commit them when ready"))
				return nil
			}
			if noCommit {
				fmt.Fprintln(out, ui.SuccessMessage("merged without committing", "inspect the tree, then commit"))
				return nil
			}
			printMergeResult(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ffOnly, "ff-only", false, "Refuse to merge unless the branch fast-forwards")
	cmd.Flags().BoolVar(&noFF, "no-ff", false, "Always create a merge commit")
	cmd.Flags().BoolVar(&squash, "squash", false, "Stage the combined changes without committing")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "Merge but stop before creating the commit")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Merge strategy (ort, recursive, ours)")
	cmd.Flags().StringArrayVarP(&strategyOpts, "strategy-option", "X", nil, "Pass a sub-option to the merge strategy")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Merge commit message")

	return cmd
}
