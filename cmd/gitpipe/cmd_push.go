package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newPushCmd() *cobra.Command {
	var force bool
	var tags bool
	var setUpstream bool
	var deleteRefs bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "push [remote] [refspec...]",
		Short: "Publish local history to a remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if force && !dryRun {
				if err := confirm("Force push, replacing remote history"); err != nil {
					return err
				}
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			opts := gitrepo.PushOptions{
				Force:       force,
				Tags:        tags,
				SetUpstream: setUpstream,
				Delete:      deleteRefs,
				DryRun:      dryRun,
			}
			if len(args) > 0 {
				opts.Remote = args[0]
				opts.Refspecs = args[1:]
			}

			renderer := transferProgress()
			opts.Progress = renderer.Callback()
			perr := repo.Push(cmd.Context(), opts)
			renderer.Finish()

			out := cmd.OutOrStdout()
			if perr != nil {
				switch {
				case errors.Is(perr, gitcmd.ErrNotFastForward):
					fmt.Fprintln(out, ui.InfoMessage("the remote has commits you do not: pull first, or push --force to replace them"))
				case errors.Is(perr, gitcmd.ErrNoUpstream):
					fmt.Fprintln(out, ui.InfoMessage("no upstream configured: retry with -u <remote> <branch>"))
				}
				return perr
			}

			switch {
			case dryRun:
				fmt.Fprintln(out, ui.SuccessMessage("dry run complete", "nothing was pushed"))
			case deleteRefs:
				fmt.Fprintln(out, ui.SuccessMessage("deleted remote ref(s)"))
			default:
				fmt.Fprintln(out, ui.SuccessMessage("push complete"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace remote refs that are not ancestors")
	cmd.Flags().BoolVar(&tags, "tags", false, "Push all tags too")
	cmd.Flags().BoolVarP(&setUpstream, "set-upstream", "u", false, "Record the pushed branch as the upstream")
	cmd.Flags().BoolVarP(&deleteRefs, "delete", "d", false, "Remove the named remote refs instead of updating them")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be pushed without pushing")

	return cmd
}
