package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newLogCmd() *cobra.Command {
	var limit int
	var skip int
	var all bool
	var firstParent bool
	var reverse bool
	var useTable bool

	cmd := &cobra.Command{
		Use:   "log [revision] [-- path...]",
		Short: "Show commit history",
		Long: `Show the commit history starting from HEAD or the given revision.
Paths after "--" restrict history to commits touching them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			rev, paths := splitRevAndPaths(cmd, args)
			history, err := repo.Log(cmd.Context(), gitrepo.LogOptions{
				Rev:         rev,
				Paths:       paths,
				MaxCount:    limit,
				Skip:        skip,
				All:         all,
				FirstParent: firstParent,
				Reverse:     reverse,
			})
			if err != nil {
				if errors.Is(err, gitcmd.ErrMissingObject) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Yellow("No commits yet"))
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, ui.Yellow("No commits yet"))
				return nil
			}

			if useTable {
				printLogTable(out, history)
			} else {
				printLogDetailed(out, history)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Limit the number of commits to show")
	cmd.Flags().IntVar(&skip, "skip", 0, "Skip that many commits before showing any")
	cmd.Flags().BoolVar(&all, "all", false, "Walk every ref instead of one revision")
	cmd.Flags().BoolVar(&firstParent, "first-parent", false, "Follow only the first parent at merges")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Show oldest commits first")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display commits in table format")

	return cmd
}

// splitRevAndPaths separates "log [rev] -- path..." arguments. Without
// a dash marker the first argument is the revision and the rest are
// paths.
func splitRevAndPaths(cmd *cobra.Command, args []string) (string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		if len(args) > 0 {
			return args[0], args[1:]
		}
		return "", nil
	}
	rev := ""
	if dash > 0 {
		rev = args[0]
	}
	return rev, args[dash:]
}

func printLogDetailed(out io.Writer, history []gitrepo.CommitSummary) {
	fmt.Fprintln(out, ui.Header(" Commit History "))
	fmt.Fprintln(out)

	for i, c := range history {
		message := c.Subject
		if c.Body != "" {
			message += "\n\n" + strings.TrimRight(c.Body, "\n")
		}
		fmt.Fprintln(out, ui.FormatCommitDetailed(ui.CommitInfo{
			Hash:    c.Id.String(),
			Author:  formatSignature(c.Author),
			Date:    c.Author.When.Format(time.RFC1123),
			Message: message,
		}))
		if i < len(history)-1 {
			fmt.Fprintln(out, ui.FormatCommitSeparator())
		}
	}
}

func printLogTable(out io.Writer, history []gitrepo.CommitSummary) {
	fmt.Fprintln(out, ui.Header(" Commit History "))
	fmt.Fprintln(out)

	table := ui.NewTable(out, "Commit", "Author", "Date", "Subject")
	for _, c := range history {
		table.Append(
			ui.Yellow(c.Id.Short()),
			ui.Cyan(c.Author.Name),
			ui.Magenta(c.Author.When.Format("2006-01-02 15:04")),
			shortSubject(c.Subject, 50),
		)
	}
	table.Render()
}
