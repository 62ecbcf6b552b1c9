package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

func newDiffCmd() *cobra.Command {
	var cached bool
	var findRenames bool
	var useTable bool

	cmd := &cobra.Command{
		Use:   "diff [from] [to] [-- path...]",
		Short: "Show changed paths between trees or the working state",
		Long: `List changed paths. With no revision the index (or HEAD, with
--cached) is compared against the working tree; one revision compares
it against the working state; two revisions compare the two trees.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			revs := args
			var paths []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				revs = args[:dash]
				paths = args[dash:]
			}

			opts := gitrepo.DiffOptions{
				Cached:      cached,
				FindRenames: findRenames,
				Paths:       paths,
			}
			if len(revs) > 0 {
				opts.From = revs[0]
			}
			if len(revs) > 1 {
				opts.To = revs[1]
			}

			entries, err := repo.Diff(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Green(fmt.Sprintf("  %s  no differences", ui.IconCheck)))
				return nil
			}

			if useTable {
				printDiffTable(out, entries)
			} else {
				printDiffLines(out, entries)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Compare the index instead of the working tree")
	cmd.Flags().BoolVarP(&findRenames, "find-renames", "M", false, "Detect renames")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display entries in table format")

	return cmd
}

func printDiffLines(out io.Writer, entries []gitrepo.TreeDifferenceEntry) {
	for _, e := range entries {
		switch e.Change {
		case gitrepo.ChangeRenamed, gitrepo.ChangeCopied:
			fmt.Fprintln(out, ui.FormatRename(e.OldPath, e.Path, e.Score))
		default:
			fmt.Fprintln(out, ui.FormatChange(e.Change.Letter(), e.Path))
		}
	}
}

func printDiffTable(out io.Writer, entries []gitrepo.TreeDifferenceEntry) {
	table := ui.NewTable(out, "Change", "Path", "Blob")
	for _, e := range entries {
		path := e.Path
		if e.OldPath != "" {
			path = e.OldPath + " " + ui.IconRenamed + " " + e.Path
		}
		blob := shortIdOrDash(e.OldId) + " " + ui.IconRenamed + " " + shortIdOrDash(e.NewId)
		table.Append(e.Change.String(), path, blob)
	}
	table.Render()
}

// shortIdOrDash abbreviates an id, showing "-" for the zero id the
// engine uses on the working-tree side of a comparison.
func shortIdOrDash(id objects.ObjectId) string {
	if id.IsZero() {
		return "-"
	}
	return id.Short()
}
