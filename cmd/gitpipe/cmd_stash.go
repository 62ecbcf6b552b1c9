package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newStashCmd() *cobra.Command {
	var message string
	var includeUntracked bool
	var keepIndex bool

	cmd := &cobra.Command{
		Use:   "stash [-- path...]",
		Short: "Save and restore uncommitted working-tree state",
		Long: `Save and restore uncommitted working-tree state.

With no subcommand, saves the current changes like "stash push". Use
list, apply, pop, drop, and clear to manage the stack.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStashPush(cmd, gitrepo.StashPushOptions{
				Message:          message,
				IncludeUntracked: includeUntracked,
				KeepIndex:        keepIndex,
				Paths:            args,
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Label for the stash entry")
	cmd.Flags().BoolVarP(&includeUntracked, "include-untracked", "u", false, "Stash untracked files too")
	cmd.Flags().BoolVarP(&keepIndex, "keep-index", "k", false, "Leave already-staged changes in the index")

	cmd.AddCommand(
		newStashPushCmd(),
		newStashListCmd(),
		newStashApplyCmd(),
		newStashPopCmd(),
		newStashDropCmd(),
		newStashClearCmd(),
	)

	return cmd
}

func newStashPushCmd() *cobra.Command {
	var message string
	var includeUntracked bool
	var keepIndex bool

	cmd := &cobra.Command{
		Use:   "push [-- path...]",
		Short: "Save the working state onto the stash stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStashPush(cmd, gitrepo.StashPushOptions{
				Message:          message,
				IncludeUntracked: includeUntracked,
				KeepIndex:        keepIndex,
				Paths:            args,
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Label for the stash entry")
	cmd.Flags().BoolVarP(&includeUntracked, "include-untracked", "u", false, "Stash untracked files too")
	cmd.Flags().BoolVarP(&keepIndex, "keep-index", "k", false, "Leave already-staged changes in the index")

	return cmd
}

func runStashPush(cmd *cobra.Command, opts gitrepo.StashPushOptions) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if perr := repo.StashPush(cmd.Context(), opts); perr != nil {
		return perr
	}
	detail := "restore it with 'gitpipe stash pop'"
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("saved working state", detail))
	return nil
}

func newStashListCmd() *cobra.Command {
	var useTable bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stash stack, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			entries, lerr := repo.StashList(cmd.Context())
			if lerr != nil {
				return lerr
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Yellow("No stash entries"))
				return nil
			}

			if useTable {
				table := ui.NewTable(out, "Stash", "Commit", "Branch", "Subject")
				for _, entry := range entries {
					table.Append(entry.Name(), entry.Id.ShortN(8), entry.Branch, shortSubject(entry.Subject, 50))
				}
				table.Render()
				return nil
			}

			for _, entry := range entries {
				fmt.Fprintf(out, "  %s %-12s %s  %s\n",
					ui.Cyan(ui.IconStash), entry.Name(), ui.Yellow(entry.Id.ShortN(8)),
					shortSubject(entry.Subject, 60))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display entries in table format")

	return cmd
}

func newStashApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [stash]",
		Short: "Reapply a stash entry, keeping it on the stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStashRestore(cmd, args, (*gitrepo.Repository).StashApply, "applied")
		},
	}
}

func newStashPopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pop [stash]",
		Short: "Reapply a stash entry and drop it on success",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStashRestore(cmd, args, (*gitrepo.Repository).StashPop, "popped")
		},
	}
}

func runStashRestore(cmd *cobra.Command, args []string,
	restore func(*gitrepo.Repository, context.Context, int) ([]gitrepo.StashUpdatedFile, error), verb string) error {

	index, err := parseStashRef(args)
	if err != nil {
		return err
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	files, rerr := restore(repo, cmd.Context(), index)
	out := cmd.OutOrStdout()
	if rerr != nil {
		// A conflicted restore still reports the files it touched.
		printStashFiles(out, files)
		return rerr
	}

	fmt.Fprintln(out, ui.SuccessMessage(fmt.Sprintf("%s stash@{%d}", verb, index)))
	printStashFiles(out, files)
	return nil
}

func newStashDropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop [stash]",
		Short: "Remove one entry from the stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseStashRef(args)
			if err != nil {
				return err
			}
			if err := confirm(fmt.Sprintf("Drop stash@{%d}", index)); err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if derr := repo.StashDrop(cmd.Context(), index); derr != nil {
				return derr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage(fmt.Sprintf("dropped stash@{%d}", index)))
			return nil
		},
	}
}

func newStashClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm("Drop all stash entries"); err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if cerr := repo.StashClear(cmd.Context()); cerr != nil {
				return cerr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("cleared the stash stack"))
			return nil
		},
	}
}

// parseStashRef accepts a bare index or the reflog spelling
// "stash@{n}". No argument means the newest entry.
func parseStashRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	sel := args[0]
	if rest, ok := strings.CutPrefix(sel, "stash@{"); ok {
		sel = strings.TrimSuffix(rest, "}")
	}
	index, err := strconv.Atoi(sel)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid stash reference %q", args[0])
	}
	return index, nil
}

func printStashFiles(out io.Writer, files []gitrepo.StashUpdatedFile) {
	for _, f := range files {
		if f.Staged == '?' || f.Worktree == '?' {
			fmt.Fprintln(out, ui.FormatUntracked(f.Path))
			continue
		}
		letter := f.Worktree
		if letter == ' ' && f.Staged != ' ' {
			letter = f.Staged
		}
		fmt.Fprintln(out, ui.FormatChange(letter, f.Path))
	}
}
