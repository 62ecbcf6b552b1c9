package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newCommitCmd() *cobra.Command {
	var message string
	var all bool
	var amend bool
	var noEdit bool
	var allowEmpty bool
	var noVerify bool
	var author string

	cmd := &cobra.Command{
		Use:   "commit [path...]",
		Short: "Record staged changes as a new commit",
		Long: `Record staged changes as a new commit.

With -a, tracked modifications are staged automatically first. With
paths, only those paths are committed regardless of the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" && !amend {
				return fmt.Errorf("commit message required (use -m)")
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			opts := gitrepo.CommitOptions{
				Message:    message,
				All:        all,
				Only:       args,
				AllowEmpty: allowEmpty,
				Amend:      amend,
				NoEdit:     noEdit,
				NoVerify:   noVerify,
				Author:     author,
			}
			// Amending without a new message keeps the old one instead of
			// opening an editor the subprocess has no terminal for.
			if amend && message == "" {
				opts.NoEdit = true
			}

			id, err := repo.Commit(cmd.Context(), opts)
			if err != nil {
				if errors.Is(err, gitcmd.ErrNothingToCommit) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Yellow("Nothing to commit, working tree clean"))
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			subject := commitSubject(message)
			if subject == "" {
				subject = "(no message)"
			}
			fmt.Fprintf(out, "[%s] %s\n", ui.Yellow(id.ShortN(8)), subject)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage tracked modifications before committing")
	cmd.Flags().BoolVar(&amend, "amend", false, "Replace the tip commit instead of adding a new one")
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Keep the previous message when amending")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "Allow a commit with no changes")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip pre-commit and commit-msg hooks")
	cmd.Flags().StringVar(&author, "author", "", "Override the author (\"Name <email>\")")

	return cmd
}

func commitSubject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}
