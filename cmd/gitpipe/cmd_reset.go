package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newResetCmd() *cobra.Command {
	var soft bool
	var mixed bool
	var hard bool

	cmd := &cobra.Command{
		Use:   "reset [revision] [-- path...]",
		Short: "Move the current head, or unstage paths",
		Long: `Move the current head to a revision, or unstage paths.

Soft keeps the index and working tree, mixed (the default) resets the
index, hard also resets the working tree. With paths after --, only
those index entries are reset and the head does not move.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			for _, set := range []bool{soft, mixed, hard} {
				if set {
					modes++
				}
			}
			if modes > 1 {
				return fmt.Errorf("--soft, --mixed, and --hard are mutually exclusive")
			}

			rev, paths := splitRevAndPaths(cmd, args)
			if rev == "" {
				rev = "HEAD"
			}

			if len(paths) > 0 {
				if modes > 0 {
					return fmt.Errorf("modes do not apply when resetting paths")
				}
				return runResetPaths(cmd, rev, paths)
			}

			mode := gitrepo.ResetMixed
			switch {
			case soft:
				mode = gitrepo.ResetSoft
			case hard:
				mode = gitrepo.ResetHard
			}

			if mode == gitrepo.ResetHard {
				if err := confirm(fmt.Sprintf("Hard reset to %s, discarding local changes", rev)); err != nil {
					return err
				}
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if rerr := repo.Reset(cmd.Context(), mode, rev); rerr != nil {
				return rerr
			}

			head, herr := repo.RevParse(cmd.Context(), "HEAD")
			if herr != nil {
				return herr
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				ui.SuccessMessage(fmt.Sprintf("%s reset to", mode), ui.Yellow(head.Short())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&soft, "soft", false, "Keep the index and working tree")
	cmd.Flags().BoolVar(&mixed, "mixed", false, "Reset the index but keep the working tree (default)")
	cmd.Flags().BoolVar(&hard, "hard", false, "Reset the index and the working tree")

	return cmd
}

func runResetPaths(cmd *cobra.Command, rev string, paths []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if rerr := repo.ResetPaths(cmd.Context(), rev, paths); rerr != nil {
		return rerr
	}
	fmt.Fprintln(cmd.OutOrStdout(),
		ui.SuccessMessage(fmt.Sprintf("unstaged %d path(s)", len(paths))))
	return nil
}
