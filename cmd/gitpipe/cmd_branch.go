package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newBranchCmd() *cobra.Command {
	var deleteFlag bool
	var renameFlag bool
	var forceFlag bool
	var trackFlag bool
	var useTable bool
	var startPoint string

	cmd := &cobra.Command{
		Use:   "branch [name] [start-point]",
		Short: "List, create, rename, or delete branches",
		Long: `List, create, rename, or delete branches.

With no arguments, lists all branches with their upstream state.
With a name argument, creates a new branch.

Examples:
  # List all branches
  gitpipe branch

  # Create a branch from a specific commit
  gitpipe branch feature abc123

  # Delete a branch
  gitpipe branch -d feature

  # Force delete an unmerged branch
  gitpipe branch -D feature

  # Rename the current branch
  gitpipe branch -m new-name

  # Force rename a specific branch
  gitpipe branch -M old-name new-name`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if renameFlag {
				var oldName, newName string
				switch len(args) {
				case 0:
					return fmt.Errorf("new branch name required for rename")
				case 1:
					current, cerr := repo.CurrentBranch(ctx)
					if cerr != nil {
						return cerr
					}
					oldName, newName = current, args[0]
				default:
					oldName, newName = args[0], args[1]
				}
				if rerr := repo.RenameBranch(ctx, oldName, newName, forceFlag); rerr != nil {
					return rerr
				}
				fmt.Fprintln(out, ui.SuccessMessage("renamed branch", oldName+" "+ui.IconRenamed+" "+newName))
				return nil
			}

			if deleteFlag {
				if len(args) == 0 {
					return fmt.Errorf("branch name required for deletion")
				}
				name := args[0]
				if forceFlag {
					if cerr := confirm(fmt.Sprintf("Force delete branch %q", name)); cerr != nil {
						return cerr
					}
				}
				if derr := repo.DeleteBranch(ctx, name, forceFlag); derr != nil {
					return derr
				}
				fmt.Fprintln(out, ui.SuccessMessage("deleted branch", name))
				return nil
			}

			if len(args) == 0 {
				return printBranches(cmd, out, repo, useTable)
			}

			opts := gitrepo.CreateBranchOptions{
				StartPoint: startPoint,
				Force:      forceFlag,
				Track:      trackFlag,
			}
			if len(args) > 1 {
				opts.StartPoint = args[1]
			}
			if cerr := repo.CreateBranch(ctx, args[0], opts); cerr != nil {
				return cerr
			}
			fmt.Fprintln(out, ui.SuccessMessage("created branch", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&deleteFlag, "delete", "d", false, "Delete a branch")
	cmd.Flags().BoolVarP(&renameFlag, "move", "m", false, "Rename a branch")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Force operation (use with -d or -m)")
	cmd.Flags().BoolVar(&trackFlag, "track", false, "Record the start point as the upstream")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display branches in table format")
	cmd.Flags().StringVar(&startPoint, "start-point", "", "Create the branch at this commit or branch")

	cmd.Flags().BoolP("force-delete", "D", false, "Force delete a branch (shorthand for -d -f)")
	cmd.Flags().BoolP("force-move", "M", false, "Force rename a branch (shorthand for -m -f)")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if forceDelete, _ := cmd.Flags().GetBool("force-delete"); forceDelete {
			deleteFlag = true
			forceFlag = true
		}
		if forceMove, _ := cmd.Flags().GetBool("force-move"); forceMove {
			renameFlag = true
			forceFlag = true
		}
		return nil
	}

	return cmd
}

func printBranches(cmd *cobra.Command, out io.Writer, repo *gitrepo.Repository, useTable bool) error {
	branches, err := repo.Branches(cmd.Context())
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		fmt.Fprintln(out, ui.Yellow("No branches found"))
		return nil
	}

	if useTable {
		table := ui.NewTable(out, "Branch", "Commit", "Upstream", "Subject")
		for _, br := range branches {
			name := br.Name
			if br.Current {
				name = "* " + name
			}
			table.Append(name, br.Id.ShortN(8), upstreamCell(br), shortSubject(br.Subject, 50))
		}
		table.Render()
		return nil
	}

	for _, br := range branches {
		prefix := "  "
		name := fmt.Sprintf("%-24s", br.Name)
		if br.Current {
			prefix = ui.Green("* ")
			name = ui.Green(name)
		}
		line := fmt.Sprintf("%s%s %s  %s", prefix, name, ui.Yellow(br.Id.ShortN(8)), shortSubject(br.Subject, 50))
		if cell := upstreamCell(br); cell != "" {
			line += "  " + ui.Dim("["+cell+"]")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func upstreamCell(br gitrepo.BranchInfo) string {
	if br.Upstream == "" {
		return ""
	}
	cell := br.Upstream
	if br.UpstreamGone {
		return cell + ": gone"
	}
	if div := ui.AheadBehind(br.Ahead, br.Behind); div != "" {
		cell += " " + div
	}
	return cell
}
