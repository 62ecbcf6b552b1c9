package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newStatusCmd() *cobra.Command {
	var showIgnored bool
	var useTable bool

	cmd := &cobra.Command{
		Use:   "status [path]...",
		Short: "Show the working tree status",
		Long: `Show which files are staged, modified, conflicted, or untracked,
parsed from the engine's machine-readable status stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			st, err := repo.Status(cmd.Context(), gitrepo.StatusOptions{
				Ignored: showIgnored,
				Paths:   args,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printStatusHeader(out, st.Branch)

			if st.Clean() {
				fmt.Fprintln(out, ui.Green(fmt.Sprintf("  %s  working tree clean, nothing to commit", ui.IconCheck)))
				return nil
			}

			if useTable {
				printStatusTable(out, st.Files)
			} else {
				printStatusGroups(out, st.Files)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIgnored, "ignored", false, "Include ignored files")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display entries in table format")

	return cmd
}

func printStatusHeader(out io.Writer, b gitrepo.BranchStatus) {
	fmt.Fprintln(out, ui.Header(" Repository Status "))

	name := b.Head
	if b.Detached() {
		name = "detached at " + shortOid(b.Oid)
	}
	line := ui.BranchInfo(name)
	if b.Upstream != "" {
		line += "  " + ui.Dim("tracking "+b.Upstream)
		if div := ui.AheadBehind(b.Ahead, b.Behind); div != "" {
			line += " " + div
		}
	}
	fmt.Fprintln(out, line)
	fmt.Fprintln(out)
}

// shortOid trims a status-header object id, leaving the engine's
// placeholder spellings like "(initial)" alone.
func shortOid(oid string) string {
	if len(oid) > 8 && !strings.HasPrefix(oid, "(") {
		return oid[:8]
	}
	return oid
}

func printStatusGroups(out io.Writer, files []gitrepo.FileStatus) {
	var staged, unstaged, unmerged, untracked, ignored []gitrepo.FileStatus
	for _, f := range files {
		switch f.Kind {
		case gitrepo.StatusUnmerged:
			unmerged = append(unmerged, f)
		case gitrepo.StatusUntracked:
			untracked = append(untracked, f)
		case gitrepo.StatusIgnored:
			ignored = append(ignored, f)
		default:
			if f.Staged != '.' {
				staged = append(staged, f)
			}
			if f.Worktree != '.' {
				unstaged = append(unstaged, f)
			}
		}
	}

	if len(staged) > 0 {
		fmt.Fprintln(out, ui.Section("Changes to be committed:"))
		for _, f := range staged {
			if f.Kind == gitrepo.StatusRenamed {
				fmt.Fprintln(out, ui.FormatRename(f.OrigPath, f.Path, f.RenameScore))
			} else {
				fmt.Fprintln(out, ui.FormatChange(f.Staged, f.Path))
			}
		}
		fmt.Fprintln(out)
	}

	if len(unmerged) > 0 {
		fmt.Fprintln(out, ui.Section("Unmerged paths:"))
		for _, f := range unmerged {
			fmt.Fprintln(out, ui.FormatConflict(f.Staged, f.Worktree, f.Path))
		}
		fmt.Fprintln(out)
	}

	if len(unstaged) > 0 {
		fmt.Fprintln(out, ui.Section("Changes not staged for commit:"))
		for _, f := range unstaged {
			fmt.Fprintln(out, ui.FormatChange(f.Worktree, f.Path))
		}
		fmt.Fprintln(out)
	}

	if len(untracked) > 0 {
		fmt.Fprintln(out, ui.Section("Untracked files:"))
		for _, f := range untracked {
			fmt.Fprintln(out, ui.FormatUntracked(f.Path))
		}
		fmt.Fprintln(out)
	}

	if len(ignored) > 0 {
		fmt.Fprintln(out, ui.Section("Ignored files:"))
		for _, f := range ignored {
			fmt.Fprintln(out, "  "+ui.Dim(f.Path))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, ui.Dim("  commit tracked changes with 'gitpipe commit -a -m <message>'"))
}

func printStatusTable(out io.Writer, files []gitrepo.FileStatus) {
	table := ui.NewTable(out, "Staged", "Worktree", "Kind", "Path")
	for _, f := range files {
		path := f.Path
		if f.OrigPath != "" {
			path = f.OrigPath + " " + ui.IconRenamed + " " + f.Path
		}
		table.Append(string(f.Staged), string(f.Worktree), f.Kind.String(), path)
	}
	table.Render()
}
