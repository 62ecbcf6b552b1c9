package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newFetchCmd() *cobra.Command {
	var all bool
	var prune bool
	var tags bool
	var depth int

	cmd := &cobra.Command{
		Use:   "fetch [remote] [refspec...]",
		Short: "Download remote history without touching the working tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			opts := gitrepo.FetchOptions{
				All:   all,
				Prune: prune,
				Tags:  tags,
				Depth: depth,
			}
			if len(args) > 0 {
				opts.Remote = args[0]
				opts.Refspecs = args[1:]
			}

			renderer := transferProgress()
			opts.Progress = renderer.Callback()
			ferr := repo.Fetch(cmd.Context(), opts)
			renderer.Finish()
			if ferr != nil {
				return ferr
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("fetch complete"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Fetch every remote")
	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "Remove remote-tracking refs that vanished upstream")
	cmd.Flags().BoolVarP(&tags, "tags", "t", false, "Fetch all tags")
	cmd.Flags().IntVar(&depth, "depth", 0, "Deepen or truncate a shallow history")

	return cmd
}
