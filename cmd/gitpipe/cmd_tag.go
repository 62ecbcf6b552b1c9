package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newTagCmd() *cobra.Command {
	var message string
	var annotate bool
	var force bool
	var deleteFlag bool
	var useTable bool

	cmd := &cobra.Command{
		Use:   "tag [name] [revision]",
		Short: "List, create, or delete tags",
		Long: `List, create, or delete tags.

With no arguments, lists all tags. With a name, creates a lightweight
tag at HEAD or the given revision; -m makes it annotated.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if deleteFlag {
				if len(args) == 0 {
					return fmt.Errorf("tag name required for deletion")
				}
				if derr := repo.DeleteTag(ctx, args[0]); derr != nil {
					return derr
				}
				fmt.Fprintln(out, ui.SuccessMessage("deleted tag", args[0]))
				return nil
			}

			if len(args) == 0 {
				return printTags(cmd, out, repo, useTable)
			}

			opts := gitrepo.TagOptions{
				Message:  message,
				Annotate: annotate,
				Force:    force,
			}
			if len(args) > 1 {
				opts.Ref = args[1]
			}
			if cerr := repo.CreateTag(ctx, args[0], opts); cerr != nil {
				return cerr
			}
			fmt.Fprintln(out, ui.SuccessMessage("created tag", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Tag message (makes the tag annotated)")
	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "Create an annotated tag (requires -m)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing tag of the same name")
	cmd.Flags().BoolVarP(&deleteFlag, "delete", "d", false, "Delete a tag")
	cmd.Flags().BoolVarP(&useTable, "table", "t", false, "Display tags in table format")

	return cmd
}

func printTags(cmd *cobra.Command, out io.Writer, repo *gitrepo.Repository, useTable bool) error {
	tags, err := repo.Tags(cmd.Context())
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Fprintln(out, ui.Yellow("No tags found"))
		return nil
	}

	if useTable {
		table := ui.NewTable(out, "Tag", "Type", "Object", "Subject")
		for _, tag := range tags {
			table.Append(tag.Name, tagKind(tag), tag.Id.ShortN(8), shortSubject(tag.Subject, 50))
		}
		table.Render()
		return nil
	}

	for _, tag := range tags {
		line := fmt.Sprintf("  %s %-24s %s", ui.Cyan(ui.IconTag), tag.Name, ui.Yellow(tag.Id.ShortN(8)))
		if tag.Annotated {
			line += "  " + shortSubject(tag.Subject, 50)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func tagKind(tag gitrepo.TagInfo) string {
	if tag.Annotated {
		return "annotated"
	}
	return "lightweight"
}
