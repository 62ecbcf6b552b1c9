package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/gitrepo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show gitpipe and engine versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gitpipe %s (built: %s, commit: %s)\n", Version, BuildTime, CommitSHA)

			engine, err := gitrepo.Version(cmd.Context(), repoOptions()...)
			if err != nil {
				fmt.Fprintln(out, ui.WarningMessage("engine not reachable: "+err.Error()))
				return nil
			}
			fmt.Fprintf(out, "git %s\n", engine)
			return nil
		},
	}
}
