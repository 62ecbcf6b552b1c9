package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newCheckoutCmd() *cobra.Command {
	var newBranch string
	var force bool
	var detach bool

	cmd := &cobra.Command{
		Use:   "checkout [revision] [-- path...]",
		Short: "Switch branches or restore working-tree paths",
		Long: `Switch branches or restore working-tree paths.

With a revision, switches to it. With paths after --, restores those
paths from the index, or from the revision when one is given. A switch
blocked by local modifications lists the blocking files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, paths := splitRevAndPaths(cmd, args)
			if ref == "" && newBranch == "" && len(paths) == 0 {
				return fmt.Errorf("checkout needs a revision, -b <branch>, or paths after --")
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			cerr := repo.Checkout(cmd.Context(), gitrepo.CheckoutOptions{
				Ref:       ref,
				NewBranch: newBranch,
				Force:     force,
				Detach:    detach,
				Paths:     paths,
			})

			out := cmd.OutOrStdout()
			if cerr != nil {
				var conflict *gitrepo.CheckoutConflictError
				if errors.As(cerr, &conflict) {
					fmt.Fprintln(out, ui.ErrorMessage("local changes block the switch"))
					for _, path := range conflict.Paths {
						fmt.Fprintln(out, ui.FormatChange('M', path))
					}
					fmt.Fprintln(out, ui.InfoMessage("commit or stash them, or retry with --force to discard"))
				}
				return cerr
			}

			switch {
			case len(paths) > 0:
				fmt.Fprintln(out, ui.SuccessMessage(fmt.Sprintf("restored %d path(s)", len(paths))))
			case newBranch != "":
				fmt.Fprintln(out, ui.SuccessMessage("switched to new branch", newBranch))
			case detach:
				fmt.Fprintln(out, ui.SuccessMessage("head detached at", ref))
			default:
				fmt.Fprintln(out, ui.SuccessMessage("switched to", ref))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&newBranch, "branch", "b", "", "Create this branch at the revision and switch to it")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Discard local modifications that block the switch")
	cmd.Flags().BoolVar(&detach, "detach", false, "Check out the commit without moving any branch")

	return cmd
}
