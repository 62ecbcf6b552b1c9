package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

// sequencerVerb parameterizes the two sequencer commands, which share
// flags, conflict handling, and resume verbs.
type sequencerVerb struct {
	use   string
	name  string
	short string
	long  string
	run   func(*gitrepo.Repository, context.Context, gitrepo.SequencerOptions) (*gitrepo.MergeResult, error)
}

func newCherryPickCmd() *cobra.Command {
	return newSequencerCmd(sequencerVerb{
		use:   "cherry-pick <commit>...",
		name:  "cherry-pick",
		short: "Apply existing commits on top of the current head",
		long: `Apply existing commits on top of the current head.

On conflict the run stops with the conflicted paths listed; resolve
them, stage, and rerun with --continue, or back out with --abort.`,
		run: (*gitrepo.Repository).CherryPick,
	})
}

func newRevertCmd() *cobra.Command {
	return newSequencerCmd(sequencerVerb{
		use:   "revert <commit>...",
		name:  "revert",
		short: "Apply the inverse of existing commits",
		long: `Apply the inverse of existing commits on top of the current head.

Each revert records a new commit undoing the named one. Conflicts are
handled the same way as cherry-pick.`,
		run: (*gitrepo.Repository).Revert,
	})
}

func newSequencerCmd(verb sequencerVerb) *cobra.Command {
	var mainline int
	var noCommit bool
	var continueFlag bool
	var abortFlag bool
	var quitFlag bool

	cmd := &cobra.Command{
		Use:   verb.use,
		Short: verb.short,
		Long:  verb.long,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			res, err := verb.run(repo, cmd.Context(), gitrepo.SequencerOptions{
				Revs:     args,
				Mainline: mainline,
				NoCommit: noCommit,
				Continue: continueFlag,
				Abort:    abortFlag,
				Quit:     quitFlag,
			})

			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, gitcmd.ErrMergeConflict) && res != nil {
					printMergeResult(out, res)
				}
				return err
			}

			switch {
			case abortFlag:
				fmt.Fprintln(out, ui.SuccessMessage(verb.name+" aborted", "previous state restored"))
			case quitFlag:
				fmt.Fprintln(out, ui.SuccessMessage(verb.name+" sequence forgotten", "working tree kept as is"))
			case noCommit:
				fmt.Fprintln(out, ui.SuccessMessage("changes staged without committing"))
			default:
				printMergeResult(out, res)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&mainline, "mainline", "m", 0, "Parent number to follow when picking a merge commit")
	cmd.Flags().BoolVarP(&noCommit, "no-commit", "n", false, "Apply the change without committing")
	cmd.Flags().BoolVar(&continueFlag, "continue", false, "Resume after resolving conflicts")
	cmd.Flags().BoolVar(&abortFlag, "abort", false, "Cancel the run and restore the pre-run state")
	cmd.Flags().BoolVar(&quitFlag, "quit", false, "Forget the run but keep the working tree")

	return cmd
}
